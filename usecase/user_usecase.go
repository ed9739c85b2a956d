package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/infrastructure/configuration"
	"reelpilot/infrastructure/logger"
	"reelpilot/infrastructure/utils"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
}

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	var res dto.Res
	user, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching user")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}
	if user == nil || user.Password != req.Password {
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid username or password"
		return res
	}

	expiresAt := utils.GetCurrentTime().Add(72 * time.Hour)
	token, err := utils.GenerateToken(map[string]interface{}{
		"user_name": user.UserName,
		"iss":       user.ID,
		"exp":       expiresAt.Unix(),
	}, configuration.C.App.SecretKey)
	if err != nil {
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while generate token"
		return res
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{
		"accessToken": token,
		"expiresAt":   expiresAt.UTC(),
		"user": map[string]interface{}{
			"id":       user.ID,
			"userName": user.UserName,
			"email":    user.Email,
			"plan":     user.Plan,
		},
	}
	return res
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res
	existing, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching user")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}
	if existing != nil {
		res.ResponseCode = "409"
		res.ResponseMessage = "Username already taken"
		return res
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		Plan:     model.TierFree,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating user")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}

	res.ResponseCode = "201"
	res.ResponseMessage = "Created"
	res.Data = map[string]interface{}{"id": user.ID, "userName": user.UserName}
	return res
}
