package archive

// Kind classifies a file by its extension
type Kind int

const (
	KindUnsupported Kind = iota
	KindZip
	KindRarFirst
	KindRarContinuation
	KindSevenZip
	KindCompressed // tar, gz, bz2, xz and their combinations
)

func (k Kind) String() string {
	switch k {
	case KindZip:
		return "zip"
	case KindRarFirst:
		return "rar"
	case KindRarContinuation:
		return "rar-continuation"
	case KindSevenZip:
		return "7z"
	case KindCompressed:
		return "compressed"
	default:
		return "unsupported"
	}
}

// Extractable reports whether files of this kind are opened directly.
// Continuation volumes are reached through their first volume instead.
func (k Kind) Extractable() bool {
	switch k {
	case KindZip, KindRarFirst, KindSevenZip, KindCompressed:
		return true
	}
	return false
}
