package sink

import "github.com/matzehuels/flowbox/pkg/layoutfile"

// RenderJSON writes the layout in its serialized form.
func RenderJSON(l layoutfile.Layout) ([]byte, error) {
	return layoutfile.Marshal(l)
}
