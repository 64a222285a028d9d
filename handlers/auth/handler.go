package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser registers a new fan or creator account
// @Summary Create a new user
// @Description Register a new account. The role (FAN or CREATOR) is fixed at creation; the ADMIN role cannot be self-assigned.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.UserCreate true "User information"
// @Success 201 {object} map[string]interface{} "message: User created successfully, email: user email"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 409 {object} map[string]interface{} "error: Email already exists"
// @Failure 500 {object} map[string]interface{} "error: Error message"
// @Router /register [post]
func CreateUser(c *gin.Context) {
	var userData models.UserCreate

	if err := c.ShouldBindJSON(&userData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input: " + err.Error(),
		})
		return
	}

	if !utils.ValidateEmail(userData.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid email format",
		})
		return
	}

	if len(userData.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "The password must contain at least 6 characters",
		})
		return
	}

	hasLower := strings.ContainsAny(userData.Password, "abcdefghijklmnopqrstuvwxyz")
	hasUpper := strings.ContainsAny(userData.Password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	hasDigit := strings.ContainsAny(userData.Password, "0123456789")

	if !hasLower || !hasUpper || !hasDigit {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "The password must contain at least one lowercase, one uppercase and one digit",
		})
		return
	}

	role := userData.Role
	switch role {
	case "":
		role = models.FanRole
	case models.FanRole, models.CreatorRole:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Role must be FAN or CREATOR",
		})
		return
	}

	var existingUser models.User
	if err := db.DB.Where("email = ?", userData.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "This email is already used",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error when checking the email existence",
		})
		return
	}

	passwordHash, err := hashPassword(userData.Password)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error hashing the password"})
		return
	}

	user := models.User{
		Email:          userData.Email,
		Password:       passwordHash,
		UserName:       userData.UserName,
		Role:           role,
		Enable:         true,
		CommentsEnable: true,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		utils.LogError(err, "Error creating user in CreateUser")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the user"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "User created in CreateUser")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"email":   user.Email,
	})
}

// Login authenticates a user and returns a JWT
// @Summary Log in
// @Description Authenticate with email and password, returns a JWT valid for 72 hours
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.UserLogin true "Credentials"
// @Success 200 {object} map[string]interface{} "token: JWT, user: profile"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Invalid credentials"
// @Router /login [post]
func Login(c *gin.Context) {
	var credentials models.UserLogin

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", credentials.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.Enable {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account is disabled"})
		return
	}

	if !checkPassword(user.Password, credentials.Password) {
		utils.LogErrorWithUser(user.ID, nil, "Wrong password in Login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user, 72)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error generating JWT in Login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating the token"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "User logged in")
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func checkPassword(hash string, formPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(formPassword))
	return err == nil
}
