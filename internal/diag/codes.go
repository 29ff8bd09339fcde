package diag

// Code identifies a diagnostic category for stable output and filtering.
type Code uint16

const (
	// IOLoadFileError covers failures to read a source file from disk.
	IOLoadFileError Code = 1 + iota
	// LexUnknownLine is a top-level line the lexer could not classify.
	LexUnknownLine
	// ParseExpectedName is a declaration missing its name.
	ParseExpectedName
	// ParseExpectedEq is a declaration missing the `=` sign.
	ParseExpectedEq
	// ParseStrayToken is a token where a declaration was expected.
	ParseStrayToken
	// ParseUnclosedPattern is a binding pattern missing its `)`.
	ParseUnclosedPattern
	// ParseDuplicateModule is a second module header in one file.
	ParseDuplicateModule
)

func (c Code) String() string {
	switch c {
	case IOLoadFileError:
		return "IO0001"
	case LexUnknownLine:
		return "LEX0001"
	case ParseExpectedName:
		return "PAR0001"
	case ParseExpectedEq:
		return "PAR0002"
	case ParseStrayToken:
		return "PAR0003"
	case ParseUnclosedPattern:
		return "PAR0004"
	case ParseDuplicateModule:
		return "PAR0005"
	}
	return "UNK0000"
}
