package dialogue

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Graph is an executable dialogue graph: a mapping of node IDs to nodes
// plus the node execution starts at. Graphs are immutable once decoded.
type Graph struct {
	ID    string
	Start string
	Nodes map[string]Node
}

// Node is one addressable unit of dialogue. It is a variant: either an NPC
// node (Content, optional Next) or a choice node (Choices). IsChoice
// discriminates; a choice node never carries content.
type Node struct {
	ID            string
	Content       string
	LineID        string // defaults to the node ID
	Substitutions []Value
	Next          string // empty means the dialogue ends here
	IsChoice      bool
	Choices       []Choice
}

// Choice is one branch offered by a choice node.
type Choice struct {
	ID      string
	Text    string
	LineID  string // defaults to the choice ID
	Next    string // empty means the dialogue ends on selection
	Enabled bool
}

// ProgramFormatError reports that a program payload could not be decoded
// into a valid graph. It is fatal to load; no run is started.
type ProgramFormatError struct {
	Reason string
	Err    error
}

func (e *ProgramFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid program: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid program: %s", e.Reason)
}

func (e *ProgramFormatError) Unwrap() error {
	return e.Err
}

// IsProgramFormatError reports whether err is a ProgramFormatError.
// Uses errors.As to handle wrapped errors.
func IsProgramFormatError(err error) bool {
	var pe *ProgramFormatError
	return errors.As(err, &pe)
}

func formatErrorf(format string, args ...any) error {
	return &ProgramFormatError{Reason: fmt.Sprintf(format, args...)}
}

// Wire shapes for program decoding. YAML is a superset of JSON, so both
// serializations are accepted by the same decoder.
type rawGraph struct {
	ID    string             `yaml:"id"`
	Start string             `yaml:"startNodeId"`
	Nodes map[string]rawNode `yaml:"nodes"`
}

type rawNode struct {
	Content       string      `yaml:"content"`
	LineID        string      `yaml:"lineId"`
	Substitutions []any       `yaml:"substitutions"`
	Next          string      `yaml:"next"`
	Choices       []rawChoice `yaml:"choices"`
}

type rawChoice struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	LineID  string `yaml:"lineId"`
	Next    string `yaml:"next"`
	Enabled *bool  `yaml:"enabled"` // nil defaults to true
}

// DecodeGraph parses a serialized dialogue graph (YAML or JSON) and
// validates its shape. Any failure is reported as a ProgramFormatError.
//
// Validation rules:
//   - startNodeId must be present and resolve to a node
//   - a node is either an NPC node or a choice node, never both
//   - every declared next must resolve to an existing node or be absent
//   - choice IDs are unique within their node
func DecodeGraph(data []byte) (*Graph, error) {
	var raw rawGraph
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ProgramFormatError{Reason: "undecodable payload", Err: err}
	}
	if len(raw.Nodes) == 0 {
		return nil, formatErrorf("program has no nodes")
	}
	if raw.Start == "" {
		return nil, formatErrorf("program is missing startNodeId")
	}
	if _, ok := raw.Nodes[raw.Start]; !ok {
		return nil, formatErrorf("startNodeId %q does not resolve to a node", raw.Start)
	}

	g := &Graph{
		ID:    raw.ID,
		Start: raw.Start,
		Nodes: make(map[string]Node, len(raw.Nodes)),
	}
	for id, rn := range raw.Nodes {
		node, err := buildNode(id, rn)
		if err != nil {
			return nil, err
		}
		g.Nodes[id] = node
	}

	// Referential integrity: every next either resolves or is absent.
	for id, node := range g.Nodes {
		if node.Next != "" {
			if _, ok := g.Nodes[node.Next]; !ok {
				return nil, formatErrorf("node %q: next node %q does not exist", id, node.Next)
			}
		}
		for _, c := range node.Choices {
			if c.Next != "" {
				if _, ok := g.Nodes[c.Next]; !ok {
					return nil, formatErrorf("node %q: choice %q: next node %q does not exist", id, c.ID, c.Next)
				}
			}
		}
	}

	return g, nil
}

func buildNode(id string, rn rawNode) (Node, error) {
	isChoice := rn.Choices != nil
	if isChoice && rn.Content != "" {
		return Node{}, formatErrorf("node %q declares both content and choices", id)
	}

	node := Node{
		ID:       id,
		Content:  rn.Content,
		LineID:   rn.LineID,
		Next:     rn.Next,
		IsChoice: isChoice,
	}
	if node.LineID == "" {
		node.LineID = id
	}

	for _, s := range rn.Substitutions {
		v, err := ValueFromAny(s)
		if err != nil {
			return Node{}, formatErrorf("node %q: bad substitution: %v", id, err)
		}
		node.Substitutions = append(node.Substitutions, v)
	}

	if isChoice {
		if rn.Next != "" {
			return Node{}, formatErrorf("node %q: choice node cannot declare next", id)
		}
		seen := make(map[string]bool, len(rn.Choices))
		node.Choices = make([]Choice, 0, len(rn.Choices))
		for _, rc := range rn.Choices {
			if rc.ID == "" {
				return Node{}, formatErrorf("node %q: choice with empty id", id)
			}
			if seen[rc.ID] {
				return Node{}, formatErrorf("node %q: duplicate choice id %q", id, rc.ID)
			}
			seen[rc.ID] = true

			c := Choice{
				ID:      rc.ID,
				Text:    rc.Text,
				LineID:  rc.LineID,
				Next:    rc.Next,
				Enabled: rc.Enabled == nil || *rc.Enabled,
			}
			if c.LineID == "" {
				c.LineID = c.ID
			}
			node.Choices = append(node.Choices, c)
		}
	}

	return node, nil
}
