package usecase

import (
	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
)

// scoped validates userID and returns the repositories for that learner.
func scoped(repos repository.Factory, userID string) (repository.UserRepositories, error) {
	id, err := entity.NormalizeUserID(userID)
	if err != nil {
		return repository.UserRepositories{}, err
	}
	return repos.ForUser(id), nil
}
