package user

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileService interface {
	GetUserByID(id int) (*model.User, error)
	UpdateProfile(userID int, input service.ProfileInput) (*model.User, error)
	UploadAvatar(userID int, file *multipart.FileHeader) (*model.User, error)
	GetUserDetails(id int) (*model.UserDetails, error)
	TopUsers() (byLikes, byPosts []*model.UserRanking, err error)
}

type DiscountInfoService interface {
	GetDiscountInfo(userID int) (*service.DiscountInfo, error)
}

type ProfileHandler struct {
	userService ProfileService
	discounts   DiscountInfoService
}

func NewProfileHandler(userService ProfileService, discounts DiscountInfoService) *ProfileHandler {
	return &ProfileHandler{userService, discounts}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetUserByID(middleware.UserID(c))
	if err != nil {
		util.Logger.Error("获取用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input service.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	user, err := h.userService.UpdateProfile(middleware.UserID(c), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"user": user}, "Profile updated")
}

// UploadAvatar 表单字段 profile_pic
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("profile_pic")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "No image uploaded", err))
		return
	}

	user, err := h.userService.UploadAvatar(middleware.UserID(c), file)
	if err != nil {
		util.Logger.Error("头像上传失败", zap.Int("user_id", middleware.UserID(c)), zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"profile_pic": user.ProfilePic}, "Profile picture updated")
}

func (h *ProfileHandler) GetUserDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid user id", err))
		return
	}

	details, err := h.userService.GetUserDetails(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, details, "")
}

func (h *ProfileHandler) TopUsers(c *gin.Context) {
	byLikes, byPosts, err := h.userService.TopUsers()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"top_users_by_likes": byLikes,
		"top_users_by_posts": byPosts,
	}, "")
}

// DiscountInfo 当前用户的折扣资格
func (h *ProfileHandler) DiscountInfo(c *gin.Context) {
	info, err := h.discounts.GetDiscountInfo(middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, info, "")
}
