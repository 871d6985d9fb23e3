package queryfield

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/octohelm/queryfield/pkg/dberr"
	"github.com/octohelm/queryfield/pkg/schema"
)

// ParseTag parses a `query` tag value of the field named sourceName.
//
//	query:"[property][,index][,desc][,groups=a|b][,group=name:order[:desc]]..."
//
// `groups=` and `group=` may repeat. Only the syntax is checked here.
func ParseTag(sourceName string, tag string) (schema.FieldDescriptor, error) {
	f := schema.FieldDescriptor{
		SourceName: sourceName,
	}

	parts := strings.Split(tag, ",")
	f.PropertyName = strings.TrimSpace(parts[0])

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)

		switch {
		case opt == "":
		case opt == "index":
			f.Indexed = true
		case opt == "desc":
			f.Descending = true
		case strings.HasPrefix(opt, "groups="):
			for _, name := range strings.Split(opt[len("groups="):], "|") {
				f.GroupNames = append(f.GroupNames, strings.TrimSpace(name))
			}
		case strings.HasPrefix(opt, "group="):
			e, err := parseGroupEntry(opt[len("group="):])
			if err != nil {
				return f, &dberr.MalformedFieldDeclarationError{Field: sourceName, Reason: err.Error()}
			}
			f.OrderedGroups = append(f.OrderedGroups, e)
		default:
			return f, &dberr.MalformedFieldDeclarationError{
				Field:  sourceName,
				Reason: fmt.Sprintf("unknown option %q", opt),
			}
		}
	}

	return f, nil
}

func parseGroupEntry(s string) (schema.GroupEntry, error) {
	e := schema.GroupEntry{}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return e, fmt.Errorf("group entry %q must be name:order[:desc]", s)
	}

	e.GroupName = strings.TrimSpace(parts[0])

	order, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return e, fmt.Errorf("group entry %q: invalid order %q", s, parts[1])
	}
	e.Order = order

	if len(parts) == 3 {
		switch strings.TrimSpace(parts[2]) {
		case "desc":
			e.Descending = true
		case "asc":
		default:
			return e, fmt.Errorf("group entry %q: invalid direction %q", s, parts[2])
		}
	}

	return e, nil
}

// FormatTag renders f back into the `query` tag syntax.
func FormatTag(f schema.FieldDescriptor) string {
	parts := []string{f.PropertyName}

	if f.Indexed {
		parts = append(parts, "index")
	}
	if f.Descending {
		parts = append(parts, "desc")
	}
	if len(f.GroupNames) > 0 {
		parts = append(parts, "groups="+strings.Join(f.GroupNames, "|"))
	}
	for _, e := range f.OrderedGroups {
		entry := "group=" + e.GroupName + ":" + strconv.Itoa(e.Order)
		if e.Descending {
			entry += ":desc"
		}
		parts = append(parts, entry)
	}

	return strings.Join(parts, ",")
}
