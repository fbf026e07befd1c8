package usecase

import (
	"context"
	"time"

	"github.com/eslsoft/examtrack/internal/catalog"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

// ProfileUsecase stores per-user preferences and derives subject choices from them.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	SetStudyField(ctx context.Context, userID string, field entity.StudyField) (*entity.Profile, error)
	SubjectOptions(ctx context.Context, userID string, examType entity.ExamType) ([]catalog.Option, error)
}

// NewProfileUsecase wires the store with default behaviour.
func NewProfileUsecase(store repository.Store) ProfileUsecase {
	return &profileUsecase{
		store: store,
		clock: time.Now,
	}
}

type profileUsecase struct {
	store repository.Store
	clock func() time.Time
}

// GetProfile returns the stored profile or an empty one for new users.
func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := u.store.SelectOne(ctx, repository.Profiles, repository.Filter{"user_id": userID})
	if err != nil {
		return nil, err
	}
	profile := &entity.Profile{UserID: userID}
	if row != nil {
		profile.StudyField = entity.StudyField(row.String("study_field"))
		profile.UpdatedAt = row.Time("updated_at")
	}
	return profile, nil
}

// SetStudyField upserts the user's field.
func (u *profileUsecase) SetStudyField(ctx context.Context, userID string, field entity.StudyField) (*entity.Profile, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if field, err = entity.ParseStudyField(string(field)); err != nil {
		return nil, err
	}
	profile := &entity.Profile{UserID: userID, StudyField: field, UpdatedAt: u.clock().UTC()}
	patch := repository.Row{"study_field": nullable(string(field)), "updated_at": profile.UpdatedAt}

	err = u.store.InTx(ctx, func(tx repository.Store) error {
		row := patch.Clone()
		row["user_id"] = userID
		if err := tx.InsertIgnore(ctx, repository.Profiles, row, "user_id"); err != nil {
			return err
		}
		_, err := tx.Update(ctx, repository.Profiles, repository.Filter{"user_id": userID}, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SubjectOptions lists the subjects of examType narrowed by the stored field.
func (u *profileUsecase) SubjectOptions(ctx context.Context, userID string, examType entity.ExamType) ([]catalog.Option, error) {
	examType, err := entity.ParseExamType(string(examType))
	if err != nil {
		return nil, err
	}
	profile, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return catalog.SubjectsFor(examType, profile.StudyField), nil
}
