package grammar

import (
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func registerGo(r *Registry) {
	r.Register(&Spec{
		Name:     "go",
		Language: golang.GetLanguage(),
		ContextQuery: `
			(function_declaration name: (identifier) @name) @context
			(method_declaration name: (field_identifier) @name) @context
			(type_declaration (type_spec name: (type_identifier) @name)) @context
		`,
		Extensions: []string{"go"},
	})
}

func registerPython(r *Registry) {
	r.Register(&Spec{
		Name:     "python",
		Language: python.GetLanguage(),
		ContextQuery: `
			(function_definition name: (identifier) @name) @context
			(class_definition name: (identifier) @name) @context
		`,
		Extensions: []string{"py", "pyi"},
	})
}

func registerJavaScript(r *Registry) {
	r.Register(&Spec{
		Name:     "javascript",
		Language: javascript.GetLanguage(),
		ContextQuery: `
			(function_declaration name: (identifier) @name) @context
			(class_declaration name: (identifier) @name) @context
			(method_definition name: (property_identifier) @name) @context
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @context
		`,
		Extensions: []string{"js", "jsx", "mjs", "cjs"},
	})
}

func registerTypeScript(r *Registry) {
	const query = `
		(function_declaration name: (identifier) @name) @context
		(class_declaration name: (type_identifier) @name) @context
		(method_definition name: (property_identifier) @name) @context
		(interface_declaration name: (type_identifier) @name) @context
		(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @context
	`

	r.Register(&Spec{
		Name:         "typescript",
		Language:     typescript.GetLanguage(),
		ContextQuery: query,
		Extensions:   []string{"ts", "mts", "cts"},
	})
	r.Register(&Spec{
		Name:         "tsx",
		Language:     tsx.GetLanguage(),
		ContextQuery: query,
		Extensions:   []string{"tsx"},
	})
}

func registerRust(r *Registry) {
	r.Register(&Spec{
		Name:     "rust",
		Language: rust.GetLanguage(),
		ContextQuery: `
			(function_item name: (identifier) @name) @context
			(impl_item type: (_) @name) @context
			(trait_item name: (type_identifier) @name) @context
			(struct_item name: (type_identifier) @name) @context
			(enum_item name: (type_identifier) @name) @context
			(mod_item name: (identifier) @name) @context
		`,
		Extensions: []string{"rs"},
	})
}
