package cli

import "github.com/moaiedu/staticsite/internal/ui/tui"

func styles() tui.Theme { return tui.DefaultTheme() }
