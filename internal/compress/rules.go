package compress

import (
	"regexp"
	"strings"
	"unicode"
)

// lineContext carries what the retention rules need to judge one diff line.
type lineContext struct {
	text     string // line content without the diff op prefix
	trimmed  string
	op       rune // '+', '-' or ' '
	reformat bool // half of a whitespace-only rewrite pair
}

// rule is one predicate in the ordered retention list. The first rule
// whose match returns true decides the line; later rules are not consulted.
type rule struct {
	name  string
	keep  bool
	match func(lc lineContext) bool
}

// retentionRules is evaluated in order. Drop rules come first so that a
// changed import or comment line is still discarded.
var retentionRules = []rule{
	{"reformat", false, func(lc lineContext) bool { return lc.reformat }},
	{"blank", false, func(lc lineContext) bool { return lc.trimmed == "" }},
	{"comment", false, func(lc lineContext) bool { return isComment(lc.trimmed) }},
	{"import", false, func(lc lineContext) bool { return isImport(lc.trimmed) }},
	{"trivial", false, func(lc lineContext) bool { return isTrivial(lc.trimmed) }},
	{"declaration", true, func(lc lineContext) bool { return isDeclaration(lc.trimmed) }},
	{"control-flow", true, func(lc lineContext) bool { return isControlFlow(lc.trimmed) }},
	{"assignment", true, func(lc lineContext) bool { return strings.Contains(lc.trimmed, "=") }},
	{"changed", true, func(lc lineContext) bool { return lc.op == '+' || lc.op == '-' }},
	{"context", false, func(lc lineContext) bool { return true }},
}

// keepLine runs the ordered rule list over one line.
func keepLine(lc lineContext) bool {
	for _, r := range retentionRules {
		if r.match(lc) {
			return r.keep
		}
	}
	return false
}

var commentPrefixes = []string{
	"//", "#", "/*", "*/", "*", "<!--", "-->", "--", `"""`, "'''", ";;",
}

func isComment(trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

var importPrefixes = []string{
	"import ", "import(", "import\t", "from ", "require(", "require '",
	`require "`, "require_relative ", "use ", "using ", "extern crate ",
	"include ", "#include",
}

// quotedModuleRe matches the interior lines of grouped import blocks,
// e.g. `"net/http"` or `gd "github.com/bluekeyes/go-gitdiff/gitdiff"`.
var quotedModuleRe = regexp.MustCompile(`^[A-Za-z_][\w.]*\s+"[^"]+",?$|^"[^"]+",?$`)

func isImport(trimmed string) bool {
	if trimmed == "import" {
		return true
	}
	for _, p := range importPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return quotedModuleRe.MatchString(trimmed)
}

// trivialLines are structural lines that carry no review signal on their own.
var trivialLines = map[string]bool{
	"{": true, "}": true, "(": true, ")": true, "[": true, "]": true,
	";": true, "};": true, "})": true, "});": true, "}]": true,
	"end": true, "pass": true, "...": true,
}

func isTrivial(trimmed string) bool {
	if trivialLines[trimmed] {
		return true
	}
	return strings.HasPrefix(trimmed, "console.log")
}

var declarationPrefixes = []string{
	"func ", "def ", "async def ", "fn ", "function ", "function(",
	"class ", "type ", "struct ", "interface ", "enum ", "trait ", "impl ",
	"module ", "public ", "private ", "protected ", "static ", "export ",
	"abstract ", "override ", "virtual ", "var ", "let ", "const ", "@",
}

func isDeclaration(trimmed string) bool {
	for _, p := range declarationPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

var controlFlowPrefixes = []string{
	"if ", "if(", "else", "elif ", "elsif ", "for ", "for(", "while ",
	"while(", "switch ", "switch(", "case ", "match ", "when ",
	"return", "throw", "raise", "panic(", "try", "catch", "except",
	"finally", "defer ", "go ", "select ", "break", "continue", "yield",
	"await ", "goto ",
}

func isControlFlow(trimmed string) bool {
	for _, p := range controlFlowPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// stripAllSpace removes every whitespace rune; two lines with equal
// stripped forms differ only in formatting.
func stripAllSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// markReformatPairs flags '-'/'+' pairs within one hunk whose content is
// identical once whitespace is removed. Pure reformatting contributes
// nothing to a review, so both halves are later dropped.
func markReformatPairs(lines []diffLine) {
	adds := make(map[string][]int)
	for i, ln := range lines {
		if ln.op != '+' {
			continue
		}
		key := stripAllSpace(ln.text)
		if key == "" {
			continue
		}
		adds[key] = append(adds[key], i)
	}

	for i, ln := range lines {
		if ln.op != '-' {
			continue
		}
		key := stripAllSpace(ln.text)
		if key == "" {
			continue
		}
		if idxs := adds[key]; len(idxs) > 0 {
			j := idxs[0]
			adds[key] = idxs[1:]
			lines[i].reformat = true
			lines[j].reformat = true
		}
	}
}
