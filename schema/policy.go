package schema

//go:generate go tool stringer -type=Policy -output=policy_string.go

// Policy decides what Build does with slots that were never filled. It is
// fixed per record at generation time and never changes when Build is
// reachable.
type Policy int

const (
	// Strict requires every slot to be filled; Build re-checks each one.
	Strict Policy = iota
	// Defaulting fills unset slots with the zero value of their type.
	Defaulting
)

// PolicyFor maps the aggregate useDefaults flag of an input record to a Policy.
func PolicyFor(useDefaults bool) Policy {
	if useDefaults {
		return Defaulting
	}

	return Strict
}
