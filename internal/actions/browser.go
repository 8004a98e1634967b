package actions

import (
	goruntime "runtime"

	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// browserCommand returns the opener for url on the current platform
func browserCommand(goos, url string) git.CommandSpec {
	switch goos {
	case "darwin":
		return git.CommandSpec{Program: "open", Args: []string{url}}
	case "windows":
		return git.CommandSpec{Program: "rundll32", Args: []string{"url.dll,FileProtocolHandler", url}}
	default:
		return git.CommandSpec{Program: "xdg-open", Args: []string{url}}
	}
}

// openBrowser opens url in the default browser. Failures are only logged.
func openBrowser(ctx *runtime.Context, dir, url string) {
	spec := browserCommand(goruntime.GOOS, url)
	spec.Dir = dir
	result, err := ctx.Runner.Run(ctx.Context, spec)
	if err != nil || !result.Success() {
		ctx.Splog.Warn("Could not open %s in a browser.", url)
	}
}
