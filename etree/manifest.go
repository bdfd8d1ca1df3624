// Package etree reads and writes XML image manifests using
// github.com/beevik/etree.
package etree

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/imgswap"
)

// Manifest is an image inventory of one source document.
type Manifest struct {
	Source string
	Images []imgswap.Image
}

// WriteManifest writes images as an indented XML manifest:
//
//	<images source="page.html" count="1">
//	  <image index="1" src="a.png" width="10"/>
//	</images>
//
// Attributes an image does not carry are omitted.
func WriteManifest(w io.Writer, source string, images []imgswap.Image) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("images")
	if source != "" {
		root.CreateAttr("source", source)
	}
	root.CreateAttr("count", strconv.Itoa(len(images)))

	for _, img := range images {
		el := root.CreateElement("image")
		el.CreateAttr("index", strconv.Itoa(img.Index))
		if img.HasSrc {
			el.CreateAttr("src", img.Src)
		}
		if img.Width != "" {
			el.CreateAttr("width", img.Width)
		}
		if img.Height != "" {
			el.CreateAttr("height", img.Height)
		}
		if img.Alt != "" {
			el.CreateAttr("alt", img.Alt)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, imgswap.Errorf(imgswap.EINVALID, "parse manifest: %v", err)
	}

	root := doc.SelectElement("images")
	if root == nil {
		return nil, imgswap.Errorf(imgswap.EINVALID, "manifest has no <images> root")
	}

	m := &Manifest{Source: root.SelectAttrValue("source", "")}
	for _, el := range root.SelectElements("image") {
		img, err := readImage(el)
		if err != nil {
			return nil, err
		}
		m.Images = append(m.Images, img)
	}
	return m, nil
}

func readImage(el *etree.Element) (imgswap.Image, error) {
	index, err := strconv.Atoi(el.SelectAttrValue("index", ""))
	if err != nil || index < 1 {
		return imgswap.Image{}, imgswap.Errorf(imgswap.EINVALID, "image has invalid index %q", el.SelectAttrValue("index", ""))
	}

	img := imgswap.Image{
		Index:  index,
		Width:  el.SelectAttrValue("width", ""),
		Height: el.SelectAttrValue("height", ""),
		Alt:    el.SelectAttrValue("alt", ""),
	}
	if attr := el.SelectAttr("src"); attr != nil {
		img.Src, img.HasSrc = attr.Value, true
	}
	return img, nil
}

// String returns a one-line summary of the manifest.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s: %d images", m.Source, len(m.Images))
}
