package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reelpilot/domain/model"
	"reelpilot/usecase"
)

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	stored := growUser()
	stored.Password = "5f4dcc3b5aa765d61d8327deb882cf99"
	userRepo.On("GetByUserName", mock.Anything, "creator").Return(stored, nil).Once()

	u := usecase.NewUserUsecase(userRepo)

	res := u.Login(context.Background(), model.ReqLogin{UserName: "creator", Password: "wrong-hash"})

	assert.Equal(t, "401", res.ResponseCode)
	assert.Nil(t, res.Data)
}

func TestLogin_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUserName", mock.Anything, "ghost").Return(nil, nil).Once()

	u := usecase.NewUserUsecase(userRepo)

	res := u.Login(context.Background(), model.ReqLogin{UserName: "ghost", Password: "x"})

	assert.Equal(t, "401", res.ResponseCode)
}

func TestRegister_Succeeds(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUserName", mock.Anything, "newbie").Return(nil, nil).Once()

	var created *model.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).
		Return(nil).
		Once()

	u := usecase.NewUserUsecase(userRepo)

	res := u.Register(context.Background(), model.ReqRegister{
		UserName: "newbie",
		Email:    "newbie@example.com",
		Password: "5f4dcc3b5aa765d61d8327deb882cf99",
	})

	assert.Equal(t, "201", res.ResponseCode)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.TierFree, created.Plan)
	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUserName(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUserName", mock.Anything, "creator").Return(growUser(), nil).Once()

	u := usecase.NewUserUsecase(userRepo)

	res := u.Register(context.Background(), model.ReqRegister{UserName: "creator", Password: "x"})

	assert.Equal(t, "409", res.ResponseCode)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
