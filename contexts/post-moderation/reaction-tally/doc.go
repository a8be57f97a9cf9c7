// Package reactiontally implements reader reactions on published posts
// inside the post-moderation context.
//
// A voter holds at most one active reaction category per post: voting the
// same category again retracts it, voting a different one switches. Every
// call is one atomic read-modify-write against the published post record.
package reactiontally
