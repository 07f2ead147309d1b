package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetProfile(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	user, err := findUserByEmail(email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUserNotFound)
		return
	}

	var dateOfBirth string
	if user.DateOfBirth != nil {
		dateOfBirth = user.DateOfBirth.Format("2006-01-02")
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"firstName":   user.FirstName,
		"lastName":    user.LastName,
		"dateOfBirth": dateOfBirth,
		"photoUrl":    user.PhotoUrl,
	})
}

func UpdateProfile(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input struct {
		FirstName   string `json:"firstName" binding:"required"`
		LastName    string `json:"lastName" binding:"required"`
		DateOfBirth string `json:"dateOfBirth"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUserNotFound)
		return
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if input.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid date of birth")
			return
		}
		user.DateOfBirth = &dob
	} else {
		user.DateOfBirth = nil
	}

	if err := initializers.DB.Save(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Problem updating profile")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Profile updated successfully."})
}

// CreateOrUpdateAddress stores the user's saved delivery address, the same
// value object that gets embedded in orders at checkout.
func CreateOrUpdateAddress(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var address models.ShippingAddress
	if err := ctx.ShouldBindJSON(&address); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUserNotFound)
		return
	}

	user.Address = &address
	if err := initializers.DB.Save(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Problem updating user address")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"address": user.Address})
}

func GetSavedAddress(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	user, err := findUserByEmail(email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUserNotFound)
		return
	}

	if user.Address == nil || user.Address.City == "" {
		ctx.Status(http.StatusNoContent)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"address": user.Address})
}

func UploadProfilePhoto(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}

	user, err := findUserByEmail(email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUserNotFound)
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to configure AWS")
		return
	}

	f, err := file.Open()
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	key := fmt.Sprintf("profiles/%s-%s", uuid.NewString(), file.Filename)
	location, err := uploadToS3(uploader, key, f, file.Header.Get("Content-Type"))
	if err != nil {
		initializers.Log.Error().Err(err).Str("email", email).Msg("failed to upload profile photo")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Problem saving profile photo")
		return
	}

	user.PhotoUrl = location
	if err := initializers.DB.Save(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Problem saving profile photo")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"photoUrl": user.PhotoUrl})
}
