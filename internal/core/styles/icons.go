package styles

import "github.com/colonyops/widgets/internal/core/notify"

// Toast icons. Plain unicode so they render without a patched font.
var (
	IconInfo    = "ℹ"
	IconSuccess = "✓"
	IconWarning = "⚠"
	IconError   = "✗"
)

// Sort indicators for table headers.
var (
	IconSortAsc  = "▲"
	IconSortDesc = "▼"
	IconSortNone = "↕"
)

// KindIcon returns the icon shown in front of a toast of kind k.
func KindIcon(k notify.Kind) string {
	switch k {
	case notify.KindSuccess:
		return IconSuccess
	case notify.KindWarning:
		return IconWarning
	case notify.KindError:
		return IconError
	default:
		return IconInfo
	}
}
