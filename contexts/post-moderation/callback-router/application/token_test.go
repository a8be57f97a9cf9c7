package application

import (
	"errors"
	"testing"

	"spotted/contexts/post-moderation/callback-router/domain/entities"
	domainerrors "spotted/contexts/post-moderation/callback-router/domain/errors"
)

func TestRewriteLegacyToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"meme_vote_yes", "meme_vote,1"},
		{"meme_vote_no", "meme_vote,0"},
		{"meme_vote,2", "meme_vote,2"},
		{"meme_confirm,yes", "meme_confirm,yes"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := RewriteLegacyToken(tc.in); got != tc.want {
			t.Fatalf("rewrite %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeToken(t *testing.T) {
	token, err := DecodeToken("meme_vote,2")
	if err != nil {
		t.Fatalf("decode should succeed: %v", err)
	}
	if token.Command != entities.CommandVote || token.Arg != "2" {
		t.Fatalf("unexpected token %+v", token)
	}

	token, err = DecodeToken("meme_report_spot")
	if err != nil {
		t.Fatalf("argless decode should succeed: %v", err)
	}
	if token.Command != entities.CommandReport || token.Arg != "" {
		t.Fatalf("unexpected token %+v", token)
	}

	// Only the first comma splits, the rest stays in the argument.
	token, err = DecodeToken("meme_confirm,yes,extra")
	if err != nil {
		t.Fatalf("decode should succeed: %v", err)
	}
	if token.Arg != "yes,extra" {
		t.Fatalf("argument should keep later commas, got %q", token.Arg)
	}

	if _, err := DecodeToken(""); !errors.Is(err, domainerrors.ErrMalformedToken) {
		t.Fatalf("empty data should be malformed, got %v", err)
	}
}
