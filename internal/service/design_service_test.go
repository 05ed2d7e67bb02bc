package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"context"
	stderrors "errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDesign() *model.Design {
	return &model.Design{
		ImageURL: "https://img.example.com/d.png",
		Model:    "iphone 15",
		Type:     "clear",
		Price:    decimal.RequireFromString("25.005"),
	}
}

func TestCreateDesignClassified(t *testing.T) {
	repo := new(MockDesignRepository)
	classifier := new(MockClassifier)
	result := model.Classification{Category: "cats", Color1: "#fff", Color2: "#000", Color3: "#f00"}
	repo.On("Create", mock.AnythingOfType("*model.Design")).
		Run(func(args mock.Arguments) { args.Get(0).(*model.Design).ID = 12 }).
		Return(nil)
	classifier.On("Classify", mock.Anything, "https://img.example.com/d.png").Return(result, nil)
	repo.On("UpdateClassification", 12, result).Return(nil)

	userID := 3
	design, err := NewDesignService(repo, classifier, nil).Create(context.Background(), newDesign(), &userID)
	require.NoError(t, err)
	assert.Equal(t, "cats", design.Class)
	assert.Equal(t, model.DefaultSKU, design.SKU)
	assert.Equal(t, "25.01", design.Price.StringFixed(2))
	assert.True(t, design.OwnedBy(3))
}

func TestCreateDesignClassifierFailure(t *testing.T) {
	repo := new(MockDesignRepository)
	classifier := new(MockClassifier)
	repo.On("Create", mock.AnythingOfType("*model.Design")).
		Run(func(args mock.Arguments) { args.Get(0).(*model.Design).ID = 12 }).
		Return(nil)
	classifier.On("Classify", mock.Anything, mock.Anything).Return(model.Classification{}, stderrors.New("timeout"))
	repo.On("UpdateClassification", 12, model.UnknownClassification()).Return(nil)

	design, err := NewDesignService(repo, classifier, nil).Create(context.Background(), newDesign(), nil)
	require.NoError(t, err)
	assert.True(t, design.IsAnonymous())
	assert.Equal(t, model.UnknownCategory, design.Class)
	assert.Empty(t, design.Color1)
}

func TestCreateDesignValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.Design)
	}{
		{"missing image", func(d *model.Design) { d.ImageURL = "" }},
		{"missing model", func(d *model.Design) { d.Model = " " }},
		{"missing type", func(d *model.Design) { d.Type = "" }},
		{"negative price", func(d *model.Design) { d.Price = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDesignRepository)
			d := newDesign()
			tt.mutate(d)

			_, err := NewDesignService(repo, nil, nil).Create(context.Background(), d, nil)
			assert.True(t, errors.Is(err, errors.ErrValidation))
			repo.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestClaimDesignOnce(t *testing.T) {
	repo := new(MockDesignRepository)
	owner := 3
	repo.On("Claim", 12, 3).Return(true, nil).Once()
	repo.On("Claim", 12, 4).Return(false, nil).Once()
	repo.On("GetByID", 12).Return(&model.Design{ID: 12, UserID: &owner}, nil)
	svc := NewDesignService(repo, nil, nil)

	design, err := svc.Claim("temp_12", 3)
	require.NoError(t, err)
	assert.True(t, design.OwnedBy(3))

	_, err = svc.Claim("12", 4)
	assert.True(t, errors.Is(err, errors.ErrAlreadyOwned))
}

func TestClaimDesignMissing(t *testing.T) {
	repo := new(MockDesignRepository)
	repo.On("Claim", 12, 3).Return(false, nil)
	repo.On("GetByID", 12).Return(nil, nil)

	_, err := NewDesignService(repo, nil, nil).Claim("temp_12", 3)
	assert.True(t, errors.Is(err, errors.ErrDesignNotFound))
}

func TestParseDesignID(t *testing.T) {
	id, err := ParseDesignID("temp_42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "temp_42", TempID(42))

	for _, raw := range []string{"", "temp_", "abc", "-1", "temp_0"} {
		_, err := ParseDesignID(raw)
		assert.Error(t, err, raw)
	}
}

func TestDeleteDesignNotOwner(t *testing.T) {
	repo := new(MockDesignRepository)
	owner := 3
	repo.On("GetByID", 12).Return(&model.Design{ID: 12, UserID: &owner}, nil)

	err := NewDesignService(repo, nil, nil).Delete(12, 4)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	repo.AssertNotCalled(t, "Delete", 12)
}
