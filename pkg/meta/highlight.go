package meta

// Highlight groups, named after the editor-side capture groups they feed.
// The set is closed; every node kind maps to exactly one group.
const (
	HlNormal          = "Normal"
	HlIdentifier      = "Identifier"
	HlString          = "String"
	HlError           = "Error"
	HlComment         = "@comment"
	HlDirective       = "@keyword.directive"
	HlDirectiveDefine = "@keyword.directive.define"
	HlStorage         = "@keyword.storage"
	HlTypeQualifier   = "@type.qualifier"
	HlTypeDefinition  = "@type.definition"
	HlNumber          = "@number"
	HlVariableBuiltin = "@variable.builtin"
	HlFunctionBuiltin = "@function.builtin"
	HlConstantBuiltin = "@constant.builtin"
	HlBoolean         = "@boolean"
)

// Highlight is one span tagged with its group.
type Highlight struct {
	Span  Span   `yaml:"span"`
	Group string `yaml:"group"`
}
