package application

// Buttons minted before the tally keyboard moved to comma tokens still carry
// the old one-word spellings. RewriteLegacyToken maps exactly those two
// spellings onto the current grammar and leaves everything else alone, so the
// rest of the router never sees the old format.
var legacyTokens = map[string]string{
	"meme_vote_yes": "meme_vote,1",
	"meme_vote_no":  "meme_vote,0",
}

// RewriteLegacyToken normalizes deprecated callback data before decoding.
func RewriteLegacyToken(data string) string {
	if rewritten, ok := legacyTokens[data]; ok {
		return rewritten
	}
	return data
}
