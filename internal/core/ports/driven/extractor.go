package driven

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// AttachmentExtractor turns an attachment reference into plain text.
// Output is capped at a fixed character budget; unsupported or corrupt
// input yields an empty string and an error wrapping
// domain.ErrAttachmentUnreadable, which callers log and ignore.
type AttachmentExtractor interface {
	ExtractText(ctx context.Context, ref domain.AttachmentRef) (string, error)
}
