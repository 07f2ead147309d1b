package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/Nii-Armah/adomi-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgUserAlreadyExists     = "user already exists"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid email or password"
	msgAccountNotActivated   = "Account not activated, check your email to activate your account."
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgInvalidActivationLink = "Invalid or expired activation link"
	msgActivationSuccess     = "account has been activated successfully."
	msgResetLinkSent         = "Check your email for a password reset link."
	msgUserCreated           = "User created successfully. Check your email to activate your account."
	msgUserNotFound          = "user with this email does not exist"
	msgUnableToResetPassword = "unable to reset password"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

// currentUserEmail pulls the email claim the auth middleware stored.
func currentUserEmail(ctx *gin.Context) (string, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return "", false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	email, ok := claims["email"].(string)
	return email, ok && email != ""
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", email).First(&user)
	return user, result.Error
}

// Send an account verification email
func sendAccountVerificationEmail(user models.User, activationToken string) error {
	emailData := utils.EmailData{
		Name:            user.Username,
		Message:         "Thank you for signing up! Click the button below to verify your account.",
		VerificationURL: os.Getenv("FRONTEND_URL") + "/auth/verify-email?token=" + url.QueryEscape(activationToken),
		LogoURL:         os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "verify_email.html")
	return utils.SendEmail(user.Email, "Account Verification", emailData, templatePath)
}

// Send a password reset email
func sendPasswordResetEmail(user models.User, resetToken string) error {
	emailData := utils.EmailData{
		Name:            user.Username,
		Message:         "You requested a password reset. Click the button below to reset your password.",
		VerificationURL: os.Getenv("FRONTEND_URL") + "/auth/reset-password?token=" + url.QueryEscape(resetToken),
		LogoURL:         os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "reset_password.html")
	return utils.SendEmail(user.Email, "Adomi Store Password Reset", emailData, templatePath)
}

// Signup handles user registration
func Signup(ctx *gin.Context) {
	var input struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone"`
		Password  string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existing models.User
	result := initializers.DB.Where("email = ? OR username = ?", input.Email, input.Username).Find(&existing)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusConflict, msgUserAlreadyExists)
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Username:        input.Username,
		Email:           input.Email,
		Phone:           input.Phone,
		Password:        hashed,
		Role:            "member",
		ActivationToken: uuid.NewString(),
	}
	if err := initializers.DB.Create(&user).Error; err != nil {
		initializers.Log.Error().Err(err).Msg("failed to create user")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := sendAccountVerificationEmail(user, user.ActivationToken); err != nil {
		initializers.Log.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated})
}

// Login authenticates a user and issues a JWT
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(loginData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if !user.Activated {
		sendErrorResponse(ctx, http.StatusForbidden, msgAccountNotActivated)
		return
	}

	token, err := generateJWT(user)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// ActivateAccount confirms a user's email address
func ActivateAccount(ctx *gin.Context) {
	activationToken := ctx.Param("activationToken")

	var user models.User
	result := initializers.DB.Where("activation_token = ?", activationToken).First(&user)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	user.Activated = true
	user.ActivationToken = ""
	if err := initializers.DB.Save(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgActivationSuccess})
}

func SendPasswordResetLink(ctx *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
			return
		}
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	user.ResetToken = uuid.NewString()
	if err := initializers.DB.Save(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := sendPasswordResetEmail(user, user.ResetToken); err != nil {
		initializers.Log.Error().Err(err).Str("email", user.Email).Msg("failed to send reset email")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

func ResetPassword(ctx *gin.Context) {
	resetToken := ctx.Param("resetToken")

	var input struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.Where("reset_token = ? AND reset_token != ''", resetToken).First(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user.Password = hashed
	user.ResetToken = ""
	if err := initializers.DB.Save(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "password has been reset successfully."})
}

// GoogleLogin exchanges a Google authorization code for a local session.
func GoogleLogin(ctx *gin.Context) {
	var input struct {
		Code        string `json:"code" binding:"required"`
		RedirectUri string `json:"redirectUri" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	client := resty.New().SetTimeout(15 * time.Second)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	resp, err := client.R().
		SetFormData(map[string]string{
			"code":          input.Code,
			"client_id":     os.Getenv("GOOGLE_CLIENT_ID"),
			"client_secret": os.Getenv("GOOGLE_CLIENT_SECRET"),
			"redirect_uri":  input.RedirectUri,
			"grant_type":    "authorization_code",
		}).
		SetResult(&tokenResp).
		Post("https://oauth2.googleapis.com/token")
	if err != nil || resp.StatusCode() != http.StatusOK || tokenResp.AccessToken == "" {
		initializers.Log.Warn().Err(err).Int("status", resp.StatusCode()).Msg("google token exchange failed")
		sendErrorResponse(ctx, http.StatusUnauthorized, "Google authentication failed")
		return
	}

	var userInfo struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	resp, err = client.R().
		SetAuthToken(tokenResp.AccessToken).
		SetResult(&userInfo).
		Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil || resp.StatusCode() != http.StatusOK || userInfo.Email == "" {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Google authentication failed")
		return
	}

	user, err := findUserByEmail(userInfo.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			FirstName: userInfo.GivenName,
			LastName:  userInfo.FamilyName,
			Username:  userInfo.Email,
			Email:     userInfo.Email,
			Role:      "member",
			Activated: true,
			PhotoUrl:  userInfo.Picture,
		}
		if err := initializers.DB.Create(&user).Error; err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
	} else if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	token, err := generateJWT(user)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// GetUserInfo returns the authenticated user's basic identity.
func GetUserInfo(ctx *gin.Context) {
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

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
	})
}
