package oszicar

import (
	"regexp"
	"strconv"
	"strings"
)

// StepField is the implicit first field of every record
const StepField = "step"

const (
	floatPattern  = `[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	assignPattern = `\s*([\w\s]+)=\s*(` + floatPattern + `)\s*`
)

var (
	// lineRegex splits a line into the step and the run of assignments after it
	lineRegex = regexp.MustCompile(`^\s*(\d+)\s*((?:` + assignPattern + `)+)$`)
	// assignRegex picks single name=value pairs out of that run
	assignRegex = regexp.MustCompile(assignPattern)
)

// Field is one name=value pair of a record
type Field struct {
	Name  string
	Value float64
}

// Record is one parsed iteration line: the step followed by its fields
// in the order they appear on the line
type Record struct {
	Step   int
	Fields []Field
}

// Names returns the record's field names with StepField first
func (r Record) Names() []string {
	names := make([]string, 0, len(r.Fields)+1)
	names = append(names, StepField)
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Value returns the value of the named field
func (r Record) Value(name string) (float64, bool) {
	if name == StepField {
		return float64(r.Step), true
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// ParseLine parses one iteration line such as
//
//	1 F= -.35381220E+02 E0= -.35379402E+02  d E =-.353812E+02
//
// Whitespace inside names is removed, so "d E" becomes "dE". Lines that do
// not have this shape (headers, electronic steps, blank lines) return false.
func ParseLine(line string) (Record, bool) {
	m := lineRegex.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return Record{}, false
	}

	step, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, false
	}

	pairs := assignRegex.FindAllStringSubmatch(m[2], -1)
	fields := make([]Field, 0, len(pairs))
	for _, pair := range pairs {
		name := strings.Join(strings.Fields(pair[1]), "")
		value, err := strconv.ParseFloat(pair[2], 64)
		if name == "" || err != nil {
			return Record{}, false
		}
		fields = append(fields, Field{Name: name, Value: value})
	}

	return Record{Step: step, Fields: fields}, true
}
