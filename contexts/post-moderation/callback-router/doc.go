// Package callbackrouter decodes inbound callback tokens and dispatches them
// to the moderation engines inside the post-moderation context.
//
// Tokens travel as "command,argument". Two deprecated spellings are rewritten
// by an isolated legacy adapter before decoding. Dispatch goes through an
// explicit finite registry validated at construction; an unrecognized command
// is logged and leaves the message untouched so it stays usable. Handlers
// return a UI delta and the router applies exactly one of replace-text or
// replace-keyboard to the originating message.
package callbackrouter
