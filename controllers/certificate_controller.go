package controllers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-course-backend/services"
)

type CertificateController struct {
	issuer *services.CertificateIssuer
}

func NewCertificateController(issuer *services.CertificateIssuer) *CertificateController {
	return &CertificateController{issuer: issuer}
}

// GetCertificate GET /api/auth/certificado/:cursoId
func (cc *CertificateController) GetCertificate(c *gin.Context) {
	identity, userID, ok := caller(c, "issue certificate")
	if !ok {
		return
	}
	courseID, ok := parseID(c, "issue certificate", "cursoId")
	if !ok {
		return
	}

	cert, err := cc.issuer.Issue(c.Request.Context(), userID, identity.Name, courseID)
	if err != nil {
		respondError(c, "issue certificate", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": cert.Filename}))
	c.Data(http.StatusOK, cert.ContentType, cert.Content)
}
