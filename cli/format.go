package cli

import (
	"strconv"
	"strings"

	"github.com/hdt3213/nosqlcore/value"
)

// FormatValue renders v the way redis-cli prints replies
func FormatValue(v value.Value) string {
	var sb strings.Builder
	writeValue(&sb, v, "")
	return strings.TrimSuffix(sb.String(), "\n")
}

func writeValue(sb *strings.Builder, v value.Value, indent string) {
	switch v := v.(type) {
	case nil, *value.NullValue:
		sb.WriteString("(nil)\n")
	case *value.ErrorValue:
		sb.WriteString("(error) " + v.Msg + "\n")
	case *value.IntegerValue:
		sb.WriteString("(integer) " + strconv.FormatInt(v.Val, 10) + "\n")
	case *value.DoubleValue:
		sb.WriteString("(double) " + strconv.FormatFloat(v.Val, 'f', -1, 64) + "\n")
	case *value.BooleanValue:
		sb.WriteString("(boolean) " + strconv.FormatBool(v.Val) + "\n")
	case *value.StringValue:
		sb.WriteString(strconv.Quote(string(v.Val)) + "\n")
	case *value.JSONValue:
		sb.WriteString(string(v.Doc) + "\n")
	case *value.ArrayValue:
		writeItems(sb, v.Items, indent)
	case *value.SetValue:
		writeItems(sb, strings2values(v.Members), indent)
	case *value.MapValue:
		flat := make([][]byte, 0, 2*len(v.Pairs))
		for _, p := range v.Pairs {
			flat = append(flat, p.Field, p.Val)
		}
		writeItems(sb, strings2values(flat), indent)
	case *value.SortedSetValue:
		flat := make([][]byte, 0, 2*len(v.Members))
		for _, m := range v.Members {
			flat = append(flat, m.Member, []byte(strconv.FormatFloat(m.Score, 'f', -1, 64)))
		}
		writeItems(sb, strings2values(flat), indent)
	case *value.StreamValue:
		entries := make([]value.Value, len(v.Entries))
		for i, e := range v.Entries {
			flat := make([][]byte, 0, 2*len(e.Fields))
			for _, p := range e.Fields {
				flat = append(flat, p.Field, p.Val)
			}
			entries[i] = value.MakeArray(value.MakeString([]byte(e.ID)), value.MakeList(flat...))
		}
		writeItems(sb, entries, indent)
	default:
		sb.WriteString("(" + v.Kind().String() + ")\n")
	}
}

func strings2values(items [][]byte) []value.Value {
	return value.MakeList(items...).Items
}

func writeItems(sb *strings.Builder, items []value.Value, indent string) {
	if len(items) == 0 {
		sb.WriteString("(empty array)\n")
		return
	}
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		prefix := strconv.Itoa(i + 1)
		prefix = strings.Repeat(" ", width-len(prefix)) + prefix + ") "
		if i > 0 {
			sb.WriteString(indent)
		}
		sb.WriteString(prefix)
		writeValue(sb, item, indent+strings.Repeat(" ", len(prefix)))
	}
}
