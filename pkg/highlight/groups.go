package highlight

import (
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// Highlight groups emitted by the tree-sitter engine. They are standard
// vim group names so every colorscheme styles them.
const (
	GroupComment     = "Comment"
	GroupString      = "String"
	GroupSpecialChar = "SpecialChar"
	GroupNumber      = "Number"
	GroupBoolean     = "Boolean"
	GroupConstant    = "Constant"
	GroupType        = "Type"
	GroupFunction    = "Function"
	GroupKeyword     = "Keyword"
	GroupMacro       = "Macro"
	GroupLabel       = "Label"
)

// groupsByType maps named node types shared by the built-in grammars.
//
//nolint:gochecknoglobals // Read-only lookup table.
var groupsByType = map[string]string{
	"comment":       GroupComment,
	"line_comment":  GroupComment,
	"block_comment": GroupComment,

	"interpreted_string_literal": GroupString,
	"raw_string_literal":         GroupString,
	"string":                     GroupString,
	"string_literal":             GroupString,
	"template_string":            GroupString,
	"char_literal":               GroupString,
	"rune_literal":               GroupString,
	"regex":                      GroupString,
	"escape_sequence":            GroupSpecialChar,

	"int_literal":       GroupNumber,
	"float_literal":     GroupNumber,
	"imaginary_literal": GroupNumber,
	"integer_literal":   GroupNumber,
	"integer":           GroupNumber,
	"float":             GroupNumber,
	"number":            GroupNumber,

	"true":            GroupBoolean,
	"false":           GroupBoolean,
	"boolean_literal": GroupBoolean,

	"nil":       GroupConstant,
	"none":      GroupConstant,
	"null":      GroupConstant,
	"undefined": GroupConstant,
	"iota":      GroupConstant,

	"type_identifier": GroupType,
	"primitive_type":  GroupType,
	"predefined_type": GroupType,

	"lifetime":        GroupLabel,
	"label_name":      GroupLabel,
	"statement_label": GroupLabel,
}

// functionParents are node types whose "name" or "function" child names a
// function.
//
//nolint:gochecknoglobals // Read-only lookup table.
var functionParents = map[string]string{
	"function_declaration": "name",
	"method_declaration":   "name",
	"function_definition":  "name",
	"function_item":        "name",
	"method_definition":    "name",
	"call_expression":      "function",
	"call":                 "function",
}

// groupFor returns the group of node, or "" when the node is not
// highlighted itself. Unnamed word tokens are keywords.
func groupFor(node *sitter.Node) string {
	typ := node.Type()

	if !node.IsNamed() {
		if node.ChildCount() == 0 && isWord(typ) {
			return GroupKeyword
		}
		return ""
	}

	if group, ok := groupsByType[typ]; ok {
		return group
	}

	switch typ {
	case "identifier", "field_identifier", "property_identifier":
		if isFunctionName(node) {
			return GroupFunction
		}
		if parent := node.Parent(); parent != nil && parent.Type() == "macro_invocation" {
			return GroupMacro
		}
	}

	return ""
}

func isFunctionName(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}

	field, ok := functionParents[parent.Type()]
	if !ok {
		return false
	}

	named := parent.ChildByFieldName(field)
	if named == nil {
		return false
	}

	return named.StartByte() == node.StartByte() && named.EndByte() == node.EndByte()
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '_' {
			return false
		}
	}
	return true
}
