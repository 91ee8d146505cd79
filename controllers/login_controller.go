package controllers

import (
	"errors"
	"net/http"
	"strings"

	"Chirp/auth"
	"Chirp/mailer"
	"Chirp/models"
	"Chirp/responses"
	"Chirp/security"

	"github.com/gin-gonic/gin"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

func (server *Server) Login(c *gin.Context) {
	user := models.User{}
	if err := c.ShouldBindJSON(&user); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	user.Prepare()
	if errorMessages := user.Validate("login"); len(errorMessages) > 0 {
		responses.Error(c, http.StatusUnprocessableEntity, strings.Join(collectMessages(errorMessages), "; "))
		return
	}

	userData, err := server.SignIn(c, user.Email, user.Password)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Incorrect email or password")
		return
	}

	responses.JSON(c, http.StatusOK, "Login successful", userData)
}

// SignIn checks the credentials and mints a token. Wrong email and wrong
// password surface as the same error to the caller.
func (server *Server) SignIn(c *gin.Context, email, password string) (map[string]interface{}, error) {
	user := models.User{}
	err := server.dbc(c).Model(models.User{}).Where("email = ?", email).Take(&user).Error
	if err != nil {
		return nil, err
	}

	if err = security.VerifyPassword(user.Password, password); err != nil {
		return nil, err
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"token": token,
		"user":  userToResponse(&user),
	}, nil
}

// ForgotPassword stores a one-time token and mails the reset link. A request
// for an unknown email reports not found; the token itself only travels by
// mail.
func (server *Server) ForgotPassword(c *gin.Context) {
	user := models.User{}
	if err := c.ShouldBindJSON(&user); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	user.Prepare()
	if errorMessages := user.Validate("forgotpassword"); len(errorMessages) > 0 {
		responses.Error(c, http.StatusUnprocessableEntity, strings.Join(collectMessages(errorMessages), "; "))
		return
	}

	err := server.dbc(c).Model(models.User{}).Where("email = ?", user.Email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "Sorry, we do not recognize this email")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error processing request")
		return
	}

	resetPassword := models.ResetPassword{
		Email: user.Email,
		Token: uuid.NewV4().String(),
	}
	resetPassword.Prepare()

	details, err := resetPassword.SaveDetails(server.dbc(c))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error processing request")
		return
	}

	if err := mailer.SendResetPassword(details.Email, details.Token); err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error sending reset email")
		return
	}

	responses.JSON(c, http.StatusOK, "Success, please click on the link provided in your email", nil)
}

type resetPasswordInput struct {
	Token          string `json:"token"`
	NewPassword    string `json:"new_password"`
	RetypePassword string `json:"retype_password"`
}

// ResetPassword consumes the emailed token and sets the new password. The
// token row is deleted on success so it cannot be replayed.
func (server *Server) ResetPassword(c *gin.Context) {
	var input resetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	if input.Token == "" {
		responses.Error(c, http.StatusBadRequest, "Token is required")
		return
	}
	if len(input.NewPassword) < 6 {
		responses.Error(c, http.StatusBadRequest, "Password should be at least 6 characters")
		return
	}
	if input.NewPassword != input.RetypePassword {
		responses.Error(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	resetPassword := models.ResetPassword{Token: input.Token}
	resetPassword.Prepare()

	err := server.dbc(c).Model(models.ResetPassword{}).
		Where("token = ?", resetPassword.Token).Take(&resetPassword).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "Invalid or expired reset link")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error processing request")
		return
	}

	user := models.User{Email: resetPassword.Email, Password: input.NewPassword}
	err = server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := user.UpdatePassword(tx); err != nil {
			return err
		}
		_, err := resetPassword.DeleteDetails(tx)
		return err
	})
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error resetting password")
		return
	}

	responses.JSON(c, http.StatusOK, "Password reset successfully", nil)
}
