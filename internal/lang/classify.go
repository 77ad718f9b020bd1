package lang

// Byte classifiers. ASCII only: multibyte runes never open or close any
// construct the scanners track, so they pass through as ordinary text.

func IsDec(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsHex(b byte) bool {
	return IsDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func IsAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsIdentStart(b byte) bool {
	return IsAlpha(b) || b == '_' || b >= 0x80
}

func IsIdentCont(b byte) bool {
	return IsIdentStart(b) || IsDec(b)
}

func IsSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
