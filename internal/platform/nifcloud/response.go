package nifcloud

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Node is an element of a parsed response document.
type Node struct {
	Name     xml.Name
	Text     string
	Children []*Node
}

// Response is a parsed API response. It is created per call and never cached.
type Response struct {
	Action     string
	StatusCode int
	// Namespace is the namespace URI of the root element, "" for error envelopes.
	Namespace string

	root  *Node
	query *Query
}

// ParseResponse parses the body of an API reply into a Response, as Call does
// for every reply.
func ParseResponse(action string, statusCode int, body []byte) (*Response, error) {
	root, err := parseDocument(bytes.NewReader(body))
	if err != nil {
		return nil, &MalformedResponseError{Action: action, Err: err}
	}
	return &Response{
		Action:     action,
		StatusCode: statusCode,
		Namespace:  root.Name.Space,
		root:       root,
		query:      &Query{node: root, ns: root.Name.Space},
	}, nil
}

// OK reports whether the API accepted the request.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Root returns the document root element.
func (r *Response) Root() *Node {
	return r.root
}

// Query returns the namespace-qualified query over the document.
func (r *Response) Query() *Query {
	return r.query
}

// Err returns nil for a successful response. Otherwise it returns the
// *APIError described by the Errors/Error element, or a
// *MalformedResponseError when the envelope carries no error code.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}

	q := &Query{node: r.root}
	errNode := q.Find("Errors", "Error")
	if errNode == nil {
		return &MalformedResponseError{Action: r.Action, Err: errNoErrorElement}
	}

	scoped := q.Within(errNode)
	code := scoped.Text("Code")
	if code == "" {
		return &MalformedResponseError{Action: r.Action, Err: errors.New("error element has no Code")}
	}
	return &APIError{
		StatusCode: r.StatusCode,
		Code:       code,
		Message:    scoped.Text("Message"),
	}
}

// Query looks up elements by local name, qualified with a fixed namespace.
// Lookups follow ElementTree's ".//a/b" form: the first step matches any
// descendant, later steps match direct children.
type Query struct {
	node *Node
	ns   string
}

// Namespace returns the namespace used to qualify names.
func (q *Query) Namespace() string {
	return q.ns
}

// Within returns a query rooted at n using the same namespace.
func (q *Query) Within(n *Node) *Query {
	return &Query{node: n, ns: q.ns}
}

// Find returns the first element matching path, or nil.
func (q *Query) Find(path ...string) *Node {
	all := q.findAll(path, true)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAll returns every element matching path in document order.
func (q *Query) FindAll(path ...string) []*Node {
	return q.findAll(path, false)
}

// Text returns the trimmed text of the first element matching path.
func (q *Query) Text(path ...string) string {
	n := q.Find(path...)
	if n == nil {
		return ""
	}
	return n.Text
}

// Texts returns the text of every element matching path.
func (q *Query) Texts(path ...string) []string {
	nodes := q.FindAll(path...)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text)
	}
	return out
}

func (q *Query) findAll(path []string, first bool) []*Node {
	if q.node == nil || len(path) == 0 {
		return nil
	}

	var out []*Node
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		for _, c := range n.Children {
			if q.matches(c, path[0]) {
				out = append(out, q.descend(c, path[1:])...)
				if first && len(out) > 0 {
					return true
				}
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(q.node)
	return out
}

// descend follows child steps from n.
func (q *Query) descend(n *Node, steps []string) []*Node {
	current := []*Node{n}
	for _, step := range steps {
		var next []*Node
		for _, c := range current {
			for _, child := range c.Children {
				if q.matches(child, step) {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

func (q *Query) matches(n *Node, local string) bool {
	return n.Name.Local == local && n.Name.Space == q.ns
}

// parseDocument builds an element tree from well-formed XML.
func parseDocument(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			case root == nil:
				root = n
			default:
				return nil, errors.New("multiple root elements")
			}
			stack = append(stack, n)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			} else if strings.TrimSpace(string(t)) != "" {
				return nil, errors.New("text outside root element")
			}
		}
	}

	if root == nil {
		return nil, errors.New("empty document")
	}
	if len(stack) > 0 {
		return nil, errors.New("unexpected end of document")
	}
	return root, nil
}
