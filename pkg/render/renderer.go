package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/surface"
)

// Source is a read-only view of a live node tree. *surface.Memory implements it.
type Source interface {
	Node(id surface.NodeID) (surface.NodeView, bool)
}

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// NodeIDs adds a data-vid attribute with the surface handle to every
	// element, which makes server-rendered markup traceable to op logs.
	NodeIDs bool
}

// Renderer serializes a live node tree to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders the subtree rooted at id to a string.
func (r *Renderer) RenderToString(src Source, id surface.NodeID) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, src, id); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams the subtree rooted at id to w. Fragments and the
// surface root render as their children only.
func (r *Renderer) RenderToWriter(w io.Writer, src Source, id surface.NodeID) error {
	return r.renderNode(w, src, id, "", 0)
}

func (r *Renderer) renderNode(w io.Writer, src Source, id surface.NodeID, parentNS string, depth int) error {
	n, ok := src.Node(id)
	if !ok {
		return fmt.Errorf("render: node %d is not live", id)
	}

	switch n.Kind {
	case surface.NodeElement:
		return r.renderElement(w, src, n, parentNS, depth)
	case surface.NodeText:
		_, err := io.WriteString(w, escapeHTML(n.Text))
		return err
	case surface.NodeFragment, surface.NodeRoot:
		for _, c := range n.Children {
			if err := r.renderNode(w, src, c, parentNS, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node kind %d", n.Kind)
	}
}

func (r *Renderer) renderElement(w io.Writer, src Source, n surface.NodeView, parentNS string, depth int) error {
	pretty := r.config.Pretty && depth >= 0
	if pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}
	if n.Namespace != parentNS && n.Namespace != "" {
		if _, err := fmt.Fprintf(w, ` xmlns="%s"`, escapeAttr(n.Namespace)); err != nil {
			return err
		}
	}
	if err := r.renderAttributes(w, n); err != nil {
		return err
	}
	if r.config.NodeIDs {
		if _, err := io.WriteString(w, ` data-vid="`+strconv.FormatUint(uint64(n.ID), 10)+`"`); err != nil {
			return err
		}
	}

	if n.Namespace == "" && html.IsVoidElement(n.Tag) {
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}
	if n.Namespace != "" && len(n.Children) == 0 {
		if _, err := io.WriteString(w, "/>"); err != nil {
			return err
		}
		if pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	// Children of an inline element stay on its line (depth -1).
	block := pretty && !isInlineElement(n.Tag) && hasElementChild(src, n)
	childDepth := -1
	if block {
		io.WriteString(w, "\n")
		childDepth = depth + 1
	}
	for _, c := range n.Children {
		if err := r.renderNode(w, src, c, n.Namespace, childDepth); err != nil {
			return err
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "</"+n.Tag+">"); err != nil {
		return err
	}
	if pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// renderAttributes writes attributes in name order, then the properties
// that have an HTML attribute form (value, checked, selected).
func (r *Renderer) renderAttributes(w io.Writer, n surface.NodeView) error {
	props := make(map[string]string, len(n.Props))
	for _, p := range n.Props {
		props[p.Name] = p.Value
	}

	for _, a := range n.Attrs {
		if _, shadowed := props[a.Name]; shadowed && isPropAttr(a.Name) {
			continue
		}
		if err := writeAttr(w, a.Name, a.Value); err != nil {
			return err
		}
	}

	for _, p := range n.Props {
		switch p.Name {
		case "value":
			if err := writeAttr(w, "value", p.Value); err != nil {
				return err
			}
		case "checked", "selected":
			if p.Value == "true" {
				if err := writeAttr(w, p.Name, ""); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func hasElementChild(src Source, n surface.NodeView) bool {
	for _, c := range n.Children {
		if cv, ok := src.Node(c); ok && cv.Kind != surface.NodeText {
			return true
		}
	}
	return false
}

func isPropAttr(name string) bool {
	return name == "value" || name == "checked" || name == "selected"
}

func writeAttr(w io.Writer, name, value string) error {
	if value == "" && isBooleanAttr(name) {
		_, err := io.WriteString(w, " "+name)
		return err
	}
	_, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(value))
	return err
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
