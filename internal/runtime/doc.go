// Package runtime provides the execution context for gitcore operations.
//
// It carries the dependencies every handler needs: the process runner, the
// repository lock registry, the settings policy, the GitHub client factory and
// the logger.
package runtime
