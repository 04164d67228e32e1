package effect

// Log is an append-only, associative log threaded through a
// PropagatingEffect. Its zero value is the identity element of Merge.
type Log struct {
	entries []string
}

// NewLog constructs a Log from the given entries.
func NewLog(entries ...string) Log {
	if len(entries) == 0 {
		return Log{}
	}
	cp := make([]string, len(entries))
	copy(cp, entries)
	return Log{entries: cp}
}

// Append returns a new Log with msg appended.
func (l Log) Append(msg string) Log {
	out := make([]string, 0, len(l.entries)+1)
	out = append(out, l.entries...)
	out = append(out, msg)
	return Log{entries: out}
}

// Merge concatenates two logs. Merge is associative and Log{} is a
// two-sided identity (§8 property 6).
func (l Log) Merge(other Log) Log {
	if len(l.entries) == 0 {
		return other
	}
	if len(other.entries) == 0 {
		return l
	}
	out := make([]string, 0, len(l.entries)+len(other.entries))
	out = append(out, l.entries...)
	out = append(out, other.entries...)
	return Log{entries: out}
}

// Entries returns the log's entries in append order.
func (l Log) Entries() []string {
	return l.entries
}

// Len reports the number of entries in the log.
func (l Log) Len() int {
	return len(l.entries)
}
