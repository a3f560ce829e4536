package domain

import "fmt"

// TemplateList is the ordered collection of template image references for a
// product. References are opaque strings (hosted URLs or inline-encoded
// images); duplicates are legal because two options may reuse the same image.
type TemplateList []string

// Append adds a reference at the end and returns the new length.
func (l *TemplateList) Append(ref string) int {
	*l = append(*l, ref)
	return len(*l)
}

// RemoveAt removes the entry at index and shifts the following entries down by
// one, leaving no gaps. Indices are positional, not stable identities: callers
// must not cache an index across removals.
func (l *TemplateList) RemoveAt(index int) error {
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%w: template index %d with %d templates", ErrIndexOutOfRange, index, len(*l))
	}
	*l = append((*l)[:index], (*l)[index+1:]...)
	return nil
}

// ResolveTemplates applies the legacy fallback rule: the templates list is
// authoritative when non-empty, otherwise the single-image legacy slot is
// used. Products created before the templates field existed only carry images.
func ResolveTemplates(images, templates []string) []string {
	if len(templates) > 0 {
		return templates
	}
	return images
}
