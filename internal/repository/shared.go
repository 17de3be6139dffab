package repository

// FilterOrder carries a CEL filter and an order_by clause.
type FilterOrder struct {
	Filter  string
	OrderBy string
}

func (fo *FilterOrder) GetFilter() string { return fo.Filter }

func (fo *FilterOrder) GetOrderBy() string { return fo.OrderBy }

// UserRepositories groups the repositories scoped to one learner.
type UserRepositories struct {
	WeakWords     WeakWordRepository
	MasteredWords MasteredWordRepository
	Phrases       SavedPhraseRepository
	Settings      SettingsRepository
	WeeklyGoal    WeeklyGoalRepository
	Sessions      SessionRepository
}

// Factory scopes repositories to a learner. userID must already be validated.
type Factory interface {
	ForUser(userID string) UserRepositories
}
