package imgswap

// Image attribute names.
const (
	AttrSrc    = "src"
	AttrWidth  = "width"
	AttrHeight = "height"
	AttrAlt    = "alt"
)

// Image is a snapshot of one located image element.
type Image struct {
	Index  int    `json:"index"`
	Src    string `json:"src"`
	HasSrc bool   `json:"hasSrc"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

// NewImage captures the current attributes of n. Index is 1-based.
func NewImage(index int, n *Node) Image {
	img := Image{Index: index}
	img.Src, img.HasSrc = n.Attr(AttrSrc)
	img.Width, _ = n.Attr(AttrWidth)
	img.Height, _ = n.Attr(AttrHeight)
	img.Alt, _ = n.Attr(AttrAlt)
	return img
}

// Inventory snapshots nodes in order.
func Inventory(nodes []*Node) []Image {
	images := make([]Image, 0, len(nodes))
	for i, n := range nodes {
		images = append(images, NewImage(i+1, n))
	}
	return images
}

// ImageProposal builds the request an image form submits: one field each
// for source, width and height, pre-filled with the current values. An
// unchanged field is a no-op, a cleared source is ignored and a cleared
// size removes the attribute.
func ImageProposal(src, width, height string) EditRequest {
	return EditRequest{
		AttrSrc:    SetValue(src),
		AttrWidth:  SetValue(width),
		AttrHeight: SetValue(height),
	}
}
