// Package autocomplete suggests completion items for an editor: language
// keywords, builtin calls with snippet bodies, and names declared in the
// current program (flows, variables, constants, labels).
package autocomplete

import (
	"sort"
	"strings"

	"github.com/retroauto/go-retroscript/ast"
)

// Kind classifies a completion item.
type Kind string

const (
	KindKeyword  Kind = "keyword"
	KindBuiltin  Kind = "builtin"
	KindVariable Kind = "variable"
	KindFlow     Kind = "flow"
	KindLabel    Kind = "label"
	KindAsset    Kind = "asset"
)

// Item is a single completion suggestion. Snippet, when set, is an
// LSP-style template with ${n:placeholder} tab stops; clients without
// snippet support insert Label instead.
type Item struct {
	Label   string `json:"label"`
	Kind    Kind   `json:"kind"`
	Detail  string `json:"detail,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

var keywordItems = []Item{
	{Label: "flow", Kind: KindKeyword, Detail: "Define a flow", Snippet: "flow ${1:name} {\n\t$0\n}"},
	{Label: "hotkeys", Kind: KindKeyword, Detail: "Define hotkeys", Snippet: "hotkeys {\n\t$0\n}"},
	{Label: "interrupt", Kind: KindKeyword, Detail: "Define interrupt handler", Snippet: "interrupt {\n\tpriority ${1:1} when image \"${2:asset}\" {\n\t\t$0\n\t}\n}"},
	{Label: "const", Kind: KindKeyword, Detail: "Constant declaration", Snippet: "const ${1:NAME} = $0"},
	{Label: "let", Kind: KindKeyword, Detail: "Variable declaration", Snippet: "let ${1:name} = $0"},
	{Label: "if", Kind: KindKeyword, Detail: "Conditional", Snippet: "if ${1:condition} {\n\t$0\n}"},
	{Label: "elif", Kind: KindKeyword, Detail: "Else if"},
	{Label: "else", Kind: KindKeyword, Detail: "Else branch"},
	{Label: "while", Kind: KindKeyword, Detail: "While loop", Snippet: "while ${1:condition} {\n\t$0\n}"},
	{Label: "for", Kind: KindKeyword, Detail: "For loop", Snippet: "for ${1:i} in ${2:range(10)} {\n\t$0\n}"},
	{Label: "repeat", Kind: KindKeyword, Detail: "Repeat N times", Snippet: "repeat ${1:3} times {\n\t$0\n}"},
	{Label: "retry", Kind: KindKeyword, Detail: "Retry on error", Snippet: "retry ${1:3} {\n\t$0\n}"},
	{Label: "match", Kind: KindKeyword, Detail: "Pattern matching", Snippet: "match ${1:$result}: {\n\t$0\n}"},
	{Label: "try", Kind: KindKeyword, Detail: "Try block", Snippet: "try {\n\t$0\n}"},
	{Label: "catch", Kind: KindKeyword, Detail: "Catch errors"},
	{Label: "and", Kind: KindKeyword, Detail: "Logical AND"},
	{Label: "or", Kind: KindKeyword, Detail: "Logical OR"},
	{Label: "end", Kind: KindKeyword, Detail: "End block"},
	{Label: "break", Kind: KindKeyword, Detail: "Break loop"},
	{Label: "continue", Kind: KindKeyword, Detail: "Continue loop"},
	{Label: "return", Kind: KindKeyword, Detail: "Return from flow"},
	{Label: "goto", Kind: KindKeyword, Detail: "Jump to label", Snippet: "goto ${1:label};"},
	{Label: "label", Kind: KindKeyword, Detail: "Define label", Snippet: "label ${1:name}:"},
	{Label: "true", Kind: KindKeyword, Detail: "Boolean true"},
	{Label: "false", Kind: KindKeyword, Detail: "Boolean false"},
	{Label: "null", Kind: KindKeyword, Detail: "Null value"},
}

var builtinItems = []Item{
	{Label: "wait_image", Kind: KindBuiltin, Detail: "Wait for image to appear", Snippet: "wait_image(\"${1:asset}\", timeout=${2:10s})"},
	{Label: "find_image", Kind: KindBuiltin, Detail: "Find image on screen", Snippet: "find_image(\"${1:asset}\")"},
	{Label: "image_exists", Kind: KindBuiltin, Detail: "Check if image is visible", Snippet: "image_exists(\"${1:asset}\")"},
	{Label: "wait_any", Kind: KindBuiltin, Detail: "Wait for any of multiple images", Snippet: "wait_any([${1:assets}], timeout=${2:10s})"},
	{Label: "click", Kind: KindBuiltin, Detail: "Click at position", Snippet: "click(${1:x}, ${2:y})"},
	{Label: "move", Kind: KindBuiltin, Detail: "Move mouse", Snippet: "move(${1:x}, ${2:y})"},
	{Label: "hotkey", Kind: KindBuiltin, Detail: "Press key combination", Snippet: "hotkey(\"${1:ctrl}\", \"${2:c}\")"},
	{Label: "type_text", Kind: KindBuiltin, Detail: "Type text", Snippet: "type_text(\"${1:text}\")"},
	{Label: "sleep", Kind: KindBuiltin, Detail: "Pause execution", Snippet: "sleep(${1:1s})"},
	{Label: "run_flow", Kind: KindBuiltin, Detail: "Run another flow", Snippet: "run_flow(\"${1:flow_name}\")"},
	{Label: "log", Kind: KindBuiltin, Detail: "Log message", Snippet: "log(\"${1:message}\")"},
	{Label: "assert", Kind: KindBuiltin, Detail: "Assertion", Snippet: "assert(${1:condition})"},
	{Label: "range", Kind: KindBuiltin, Detail: "Generate range", Snippet: "range(${1:10})"},
}

// Provider computes completions. Program context is pushed in via
// UpdateContext after each successful parse; asset names come from the
// host's asset store via SetAssets.
type Provider struct {
	flows     []string
	labels    []string
	variables []string
	assets    []string
}

func NewProvider() *Provider {
	return &Provider{}
}

// UpdateContext re-derives flow, label and variable names from a parsed
// program. A nil program keeps the previous context.
func (p *Provider) UpdateContext(program *ast.Program) {
	if program == nil {
		return
	}

	flows := map[string]bool{}
	labels := map[string]bool{}
	vars := map[string]bool{}

	for _, c := range program.Constants {
		vars[c.Name] = true
	}
	for _, flow := range program.Flows {
		flows[flow.Name] = true
	}
	ast.Inspect(program, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.LetStmt:
			vars[node.Name] = true
		case *ast.ConstStmt:
			vars[node.Name] = true
		case *ast.AssignStmt:
			if ident, ok := node.Target.(*ast.Identifier); ok {
				vars[strings.TrimPrefix(ident.Name, "$")] = true
			}
		case *ast.LabelStmt:
			labels[node.Name] = true
		}
		return true
	})

	p.flows = sortedNames(flows)
	p.labels = sortedNames(labels)
	p.variables = sortedNames(vars)
}

// SetAssets replaces the known asset names offered inside string
// positions of image builtins.
func (p *Provider) SetAssets(names []string) {
	p.assets = append([]string(nil), names...)
	sort.Strings(p.assets)
}

// Completions returns items matching the prefix, static vocabulary
// first, then declared names. A "$" prefix restricts to variables.
func (p *Provider) Completions(prefix string) []Item {
	var results []Item

	if strings.HasPrefix(prefix, "$") {
		varPrefix := strings.ToLower(prefix[1:])
		for _, name := range p.variables {
			if strings.HasPrefix(strings.ToLower(name), varPrefix) {
				results = append(results, Item{Label: "$" + name, Kind: KindVariable, Detail: "Variable"})
			}
		}
		return results
	}

	lower := strings.ToLower(prefix)
	for _, item := range keywordItems {
		if strings.HasPrefix(item.Label, lower) {
			results = append(results, item)
		}
	}
	for _, item := range builtinItems {
		if strings.HasPrefix(item.Label, lower) {
			results = append(results, item)
		}
	}
	for _, name := range p.flows {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			results = append(results, Item{Label: name, Kind: KindFlow, Detail: "Flow"})
		}
	}
	for _, name := range p.labels {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			results = append(results, Item{Label: name, Kind: KindLabel, Detail: "Label"})
		}
	}
	return results
}

// AssetCompletions returns known asset names matching the prefix, for
// use inside the string argument of image builtins.
func (p *Provider) AssetCompletions(prefix string) []Item {
	lower := strings.ToLower(prefix)
	var results []Item
	for _, name := range p.assets {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			results = append(results, Item{Label: name, Kind: KindAsset, Detail: "Asset"})
		}
	}
	return results
}

// KeywordCompletions returns the full keyword vocabulary.
func KeywordCompletions() []Item {
	return append([]Item(nil), keywordItems...)
}

// BuiltinCompletions returns the full builtin vocabulary.
func BuiltinCompletions() []Item {
	return append([]Item(nil), builtinItems...)
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
