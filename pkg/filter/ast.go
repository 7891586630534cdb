package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kubev2v/password-saver/internal/models"
)

// Field is an entry attribute a filter can reference.
type Field int

const (
	SiteField Field = iota
	UsernameField
)

// fieldMap resolves identifiers, case-insensitively. The secret is not filterable.
var fieldMap = map[string]Field{
	"site":     SiteField,
	"username": UsernameField,
}

func lookupField(name string) (Field, bool) {
	f, ok := fieldMap[strings.ToLower(name)]
	return f, ok
}

func fieldNames() []string {
	names := make([]string, 0, len(fieldMap))
	for name := range fieldMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Field) String() string {
	switch f {
	case SiteField:
		return "site"
	case UsernameField:
		return "username"
	default:
		return "unknown"
	}
}

func (f Field) value(e models.Entry) string {
	switch f {
	case SiteField:
		return e.Site
	case UsernameField:
		return e.Username
	default:
		return ""
	}
}

// Expression is the abstract syntax tree for any expression.
type Expression interface {
	String() string
	Match(e models.Entry) bool
}

// logicalExpression is "a and b" or "a or b".
type logicalExpression struct {
	Left  Expression
	Op    Token
	Right Expression
}

func (e *logicalExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

func (e *logicalExpression) Match(entry models.Entry) bool {
	if e.Op == and {
		return e.Left.Match(entry) && e.Right.Match(entry)
	}
	return e.Left.Match(entry) || e.Right.Match(entry)
}

// comparisonExpression is "field <op> 'value'", compared byte-wise.
type comparisonExpression struct {
	Field Field
	Op    Token
	Value string
}

func (e *comparisonExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Field, e.Op, strconv.Quote(e.Value))
}

func (e *comparisonExpression) Match(entry models.Entry) bool {
	c := strings.Compare(e.Field.value(entry), e.Value)
	switch e.Op {
	case equal:
		return c == 0
	case notEqual:
		return c != 0
	case greater:
		return c > 0
	case gte:
		return c >= 0
	case less:
		return c < 0
	case lte:
		return c <= 0
	default:
		return false
	}
}

// regexExpression is "field ~ /pattern/" or "field !~ /pattern/".
type regexExpression struct {
	Field   Field
	Op      Token
	Pattern *regexp.Regexp
}

func newPattern(pos int, pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(ParseError{pos, fmt.Sprintf("invalid regex: %s", err)})
	}
	return re
}

func (e *regexExpression) String() string {
	return fmt.Sprintf("(%s %s /%s/)", e.Field, e.Op, e.Pattern.String())
}

func (e *regexExpression) Match(entry models.Entry) bool {
	matched := e.Pattern.MatchString(e.Field.value(entry))
	if e.Op == notLike {
		return !matched
	}
	return matched
}
