package entity

// Mutation is one of the two field-level changes a lead accepts after
// creation. The marker method keeps the set closed to this package.
type Mutation interface {
	apply(l *Lead)
}

// SetStatus moves a lead to another stage. Any stage may follow any other.
type SetStatus struct {
	Status Status
}

func (m SetStatus) apply(l *Lead) {
	l.Status = m.Status
}

// AppendNote adds a note at the end of the lead's notes.
type AppendNote struct {
	Text string
}

func (m AppendNote) apply(l *Lead) {
	l.Notes = append(l.Notes, m.Text)
}

// Apply runs the mutation against l. Nothing else in a lead can change.
func Apply(l *Lead, m Mutation) {
	if l.Notes == nil {
		l.Notes = []string{}
	}
	m.apply(l)
}
