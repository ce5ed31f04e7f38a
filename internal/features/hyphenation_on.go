//go:build hyphenation

package features

func init() {
	compiled[Hyphenation] = true
}
