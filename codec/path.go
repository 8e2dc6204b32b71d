package codec

import (
	"runtime"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// PosixPath is spec.md's "Filesystem path (POSIX variant)" kind.
type PosixPath string

// WindowsPath is spec.md's "Filesystem path (Windows variant)" kind.
type WindowsPath string

// IsPosixPath matches exactly PosixPath.
func IsPosixPath(v any) bool { _, ok := v.(PosixPath); return ok }

// IsWindowsPath matches exactly WindowsPath.
func IsWindowsPath(v any) bool { _, ok := v.(WindowsPath); return ok }

// ExportPosixPath writes the path as text, tagged pathlib.PosixPath.
func ExportPosixPath(ctx registry.Context, v any, at container.Path) error {
	s := string(v.(PosixPath))
	return ctx.Driver().WriteDataset(at, container.DTypeUTF8, []int{len(s)}, []byte(s), false)
}

// ExportWindowsPath writes the path as text, tagged pathlib.WindowsPath.
func ExportWindowsPath(ctx registry.Context, v any, at container.Path) error {
	s := string(v.(WindowsPath))
	return ctx.Driver().WriteDataset(at, container.DTypeUTF8, []int{len(s)}, []byte(s), false)
}

// ImportPosixPath reconstructs a PosixPath node. spec.md §4.5: on a POSIX
// host a POSIX-tagged path returns a concrete POSIX path; on a Windows
// host the symmetric rule (§8 "Cross-platform paths") makes this a "pure",
// non-OS-native value. Go has no separate pure/concrete path hierarchy, so
// both cases return the same PosixPath string type; IsNative reports which
// case applies.
func ImportPosixPath(ctx registry.Context, at container.Path) (any, error) {
	_, _, data, err := ctx.Driver().ReadDataset(at)
	if err != nil {
		return nil, err
	}
	return PosixPath(data), nil
}

// ImportWindowsPath reconstructs a WindowsPath node; see ImportPosixPath.
func ImportWindowsPath(ctx registry.Context, at container.Path) (any, error) {
	_, _, data, err := ctx.Driver().ReadDataset(at)
	if err != nil {
		return nil, err
	}
	return WindowsPath(data), nil
}

// IsNative reports whether a path value's flavor matches the host h5it is
// running on — PosixPath on a POSIX host, WindowsPath on Windows — per
// spec.md §4.5 and §8's concrete-vs-pure distinction.
func IsNative(v any) bool {
	switch v.(type) {
	case PosixPath:
		return runtime.GOOS != "windows"
	case WindowsPath:
		return runtime.GOOS == "windows"
	default:
		return false
	}
}
