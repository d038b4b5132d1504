package cache

// UserSet is an explicit set of user logins. Built once from
// configuration and rebuilt on settings changes, never derived from
// ambient state.
type UserSet map[string]struct{}

// NewUserSet builds a set from a slice of logins
func NewUserSet(logins []string) UserSet {
	set := make(UserSet, len(logins))
	for _, login := range logins {
		if login != "" {
			set[login] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the login is in the set
func (s UserSet) Contains(login string) bool {
	_, ok := s[login]
	return ok
}

// Config defines the cache's polling and retention parameters. It is
// immutable once handed to the cache; to change settings, construct a
// new cache.
type Config struct {
	// RetentionWeeks is the age past which eligible pull requests
	// are evicted.
	RetentionWeeks int

	// ClosedOnlyRetention restricts eviction to closed and merged
	// pull requests; open ones are kept regardless of age.
	ClosedOnlyRetention bool

	// LookbackWeeks is the notification window fetched on a cold
	// start, before any successful poll.
	LookbackWeeks int

	// ExcludedUsers hides pull requests authored by these logins
	// from the read model.
	ExcludedUsers UserSet
}

// DefaultConfig returns sensible default cache parameters
func DefaultConfig() Config {
	return Config{
		RetentionWeeks:      4,
		ClosedOnlyRetention: true,
		LookbackWeeks:       1,
		ExcludedUsers:       UserSet{},
	}
}
