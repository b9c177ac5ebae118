package lang

// ValueType is one of the three types in the language's type system. There
// is no coercion between them.
type ValueType int

const (
	TypeString ValueType = iota
	TypeStringList
	TypeBool
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeStringList:
		return "StringList"
	case TypeBool:
		return "Bool"
	default:
		return "?"
	}
}

// StringList is an ordered sequence of strings; duplicates are permitted.
type StringList []string
