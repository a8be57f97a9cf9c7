// Package approvalengine implements the quorum-based approval workflow
// inside the post-moderation context.
//
// The module owns the pending post lifecycle: admins cast approve/reject
// votes, duplicate votes are absorbed without churn, and the first vote that
// reaches the configured quorum resolves the post exactly once. Promotion
// (delete pending, create published) happens inside a single store
// transaction so racing admins cannot both trigger it. Business rules live
// in application/domain layers and infrastructure stays behind ports.
package approvalengine
