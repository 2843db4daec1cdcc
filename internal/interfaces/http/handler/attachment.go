package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
)

// AttachmentHandler handles transaction attachment API endpoints
type AttachmentHandler struct {
	BaseHandler
	attachmentService *ledgerapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *ledgerapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// Upload godoc
// @Summary      Upload an attachment
// @Description  Attach a receipt or document to a transaction
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        file formData file true "File to upload"
// @Success      201 {object} dto.Response{data=ledgerapp.AttachmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(c.Request.Context(), userID, transactionID, ledgerapp.UploadAttachmentRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, attachment)
}

// List godoc
// @Summary      List attachments of a transaction
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]ledgerapp.AttachmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/attachments [get]
func (h *AttachmentHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	attachments, err := h.attachmentService.List(c.Request.Context(), userID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attachments)
}

// DownloadURL godoc
// @Summary      Get an attachment download URL
// @Description  Return a short-lived presigned URL for downloading the attachment
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{id}/download-url [get]
func (h *AttachmentHandler) DownloadURL(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	url, err := h.attachmentService.DownloadURL(c.Request.Context(), userID, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url})
}

// Delete godoc
// @Summary      Delete an attachment
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), userID, attachmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
