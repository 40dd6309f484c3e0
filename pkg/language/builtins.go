package language

// Builtin definitions. Patterns are written against rule text that has
// already had comment and string spans masked and trailing whitespace
// trimmed, so they need no quote or lookaround handling.

// bracketIncrease matches a {, (, or [ left unclosed at end of line.
const bracketIncrease = `(\{[^}]*|\([^)]*|\[[^\]]*)$`

// bracketDecrease matches a line whose first token is a closer.
const bracketDecrease = `^\s*[\}\]\)]`

func builtinConfigs() []Config {
	return []Config{
		{
			ID:                "typescript",
			Name:              "TypeScript",
			Aliases:           []string{"ts", "tsx"},
			Extensions:        []string{".ts", ".tsx", ".mts", ".cts"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			Quotes:            []string{`"`, `'`},
			MultilineStrings:  []string{"`"},
			Brackets:          cBrackets(),
			Indent: IndentPatterns{
				Increase:       bracketIncrease + `|^\s*(case\b.*|default\s*):$`,
				Decrease:       `^\s*([\}\]\)]|(case\b.*|default\s*):$)`,
				IndentNextLine: `^\s*(if|while|for)\s*\([^)]*\)$|^\s*else$|=>$`,
			},
		},
		{
			ID:                "javascript",
			Name:              "JavaScript",
			Aliases:           []string{"js", "jsx", "node"},
			Extensions:        []string{".js", ".jsx", ".mjs", ".cjs"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			Quotes:            []string{`"`, `'`},
			MultilineStrings:  []string{"`"},
			Brackets:          cBrackets(),
			Indent: IndentPatterns{
				Increase:       bracketIncrease + `|^\s*(case\b.*|default\s*):$`,
				Decrease:       `^\s*([\}\]\)]|(case\b.*|default\s*):$)`,
				IndentNextLine: `^\s*(if|while|for)\s*\([^)]*\)$|^\s*else$|=>$`,
			},
		},
		{
			ID:                "go",
			Name:              "Go",
			Aliases:           []string{"golang"},
			Extensions:        []string{".go"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			Quotes:            []string{`"`, `'`},
			MultilineStrings:  []string{"`"},
			Brackets:          cBrackets(),
			Indent: IndentPatterns{
				Increase: bracketIncrease + `|^\s*(case\b.*|default\s*):$`,
				Decrease: `^\s*([\}\]\)]|(case\b.*|default\s*):$)`,
			},
		},
		{
			ID:               "python",
			Name:             "Python",
			Aliases:          []string{"py", "python3"},
			Extensions:       []string{".py", ".pyi"},
			LineComment:      "#",
			Quotes:           []string{`"`, `'`},
			MultilineStrings: []string{`"""`, `'''`},
			Brackets:         cBrackets(),
			Indent: IndentPatterns{
				Increase: `^\s*(async\s+)?(def|class|for|if|elif|else|while|try|with|finally|except|match|case)\b.*:$|` + bracketIncrease,
				Decrease: `^\s*((else|elif|except|finally)\b|[\}\]\)])`,
			},
		},
		{
			ID:                      "ruby",
			Name:                    "Ruby",
			Aliases:                 []string{"rb"},
			Extensions:              []string{".rb", ".rake", ".gemspec", ".ru"},
			LineComment:             "#",
			BlockCommentStart:       "=begin",
			BlockCommentEnd:         "=end",
			BlockCommentAtLineStart: true,
			Quotes:                  []string{`"`, `'`},
			Brackets:                cBrackets(),
			Indent: IndentPatterns{
				Increase: `^\s*(begin|case|class|def|else|elsif|ensure|for|if|in|module|rescue|unless|until|when|while)\b[^{;]*$` +
					`|\bdo(\s*\|[^|]*\|)?$` +
					`|=\s*(case|if|unless)\b[^{;]*$` +
					`|[\{\[\(]$`,
				Decrease:   `^\s*((end|else|elsif|when|in|rescue|ensure)\b|[\}\]\)])`,
				Unindented: `^(=begin|=end|__END__)\b`,
			},
		},
		{
			ID:                "lua",
			Name:              "Lua",
			Extensions:        []string{".lua"},
			LineComment:       "--",
			BlockCommentStart: "--[[",
			BlockCommentEnd:   "]]",
			Quotes:            []string{`"`, `'`},
			Brackets: []BracketPair{
				{Open: "{", Close: "}"},
				{Open: "(", Close: ")"},
			},
			Indent: IndentPatterns{
				Increase: `^\s*(local\s+)?function\b.*$|\b(do|then|repeat)$|^\s*else$|[\{\(]$`,
				Decrease: `^\s*((end|else|elseif|until)\b|[\}\)])`,
			},
		},
		{
			ID:         "json",
			Name:       "JSON",
			Aliases:    []string{"jsonc"},
			Extensions: []string{".json", ".jsonc"},
			Quotes:     []string{`"`},
			Brackets: []BracketPair{
				{Open: "{", Close: "}"},
				{Open: "[", Close: "]"},
			},
		},
		{
			ID:                "css",
			Name:              "CSS",
			Aliases:           []string{"scss", "less"},
			Extensions:        []string{".css", ".scss", ".less"},
			LineComment:       "",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			Quotes:            []string{`"`, `'`},
			Brackets: []BracketPair{
				{Open: "{", Close: "}"},
			},
		},
	}
}

// cBrackets is the brace/paren/bracket set shared by the C-family
// builtins.
func cBrackets() []BracketPair {
	return []BracketPair{
		{Open: "{", Close: "}"},
		{Open: "(", Close: ")"},
		{Open: "[", Close: "]"},
	}
}

func init() {
	for _, cfg := range builtinConfigs() {
		DefaultRegistry.Register(MustCompile(cfg))
	}
}
