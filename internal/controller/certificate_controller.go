package controller

import (
	"errors"

	"learnify_backend/internal/model"
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// Mine godoc
// @Summary 我的证书列表
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certs, err := c.CertificateService.MyCertificates(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// Download godoc
// @Summary 获取证书图片地址
// @Description 图片缺失时现场重新生成
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "证书ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "不是本人的证书"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/{id}/download [get]
func (c *CertificateController) Download(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "无效的证书ID")
		return
	}

	cert, err := c.CertificateService.GetForDownload(certID, claims.UserID, claims.Role == model.Admin)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCertificateNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"certificateUrl":   cert.CertificateURL,
		"verificationCode": cert.VerificationCode,
	})
}

// Verify godoc
// @Summary 公开查验证书
// @Description 无需登录，凭校验码查验证书真伪
// @Tags 证书
// @Produce  json
// @Param   code query string true "校验码"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/verify [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	code := ctx.Query("code")
	if code == "" {
		util.BadRequest(ctx, "缺少校验码")
		return
	}

	cert, err := c.CertificateService.VerifyByCode(code)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"valid":            true,
		"studentName":      cert.User.Username,
		"courseTitle":      cert.Course.Title,
		"score":            cert.Score,
		"issueDate":        cert.IssueDate,
		"verificationCode": cert.VerificationCode,
		"certificateUrl":   cert.CertificateURL,
	})
}
