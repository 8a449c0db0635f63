package logics

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"escalas-server/internal/apperrors"
	"escalas-server/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/samber/lo"
)

const maxAvatarSize = 5 * 1024 * 1024

// avatarExtensions are the formats accepted for upload. Prior objects under
// every extension are removed before a new upload so no orphaned blob is left
// behind under a different extension.
var avatarExtensions = []string{"jpg", "jpeg", "png", "webp", "gif"}

// AvatarService stores user avatar images in S3 and records the public URL
// on the user row.
type AvatarService struct {
	s3Client    *s3.Client
	bucketName  string
	region      string
	userService *UserService
}

// NewAvatarService creates a new AvatarService.
func NewAvatarService(s3Client *s3.Client, bucketName, region string, userService *UserService) *AvatarService {
	return &AvatarService{
		s3Client:    s3Client,
		bucketName:  bucketName,
		region:      region,
		userService: userService,
	}
}

// UploadAvatar replaces the user's avatar: removes any previously stored
// object for that user id, uploads the new image and updates the row.
func (s *AvatarService) UploadAvatar(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	defer file.Close()

	if _, err := s.userService.GetUserByID(userID); err != nil {
		return nil, err
	}

	if header.Size > maxAvatarSize {
		return nil, apperrors.NewValidation("image must be at most 5MB")
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.NewValidation("file must be an image")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if ext == "" || !lo.Contains(avatarExtensions, ext) {
		return nil, apperrors.NewValidation("unsupported image format")
	}

	// Remove prior avatars under every known extension; errors are ignored,
	// the objects may simply not exist.
	for _, priorExt := range avatarExtensions {
		_, _ = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(s.avatarKey(userID, priorExt)),
		})
	}

	key := s.avatarKey(userID, ext)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, apperrors.NewUpstream("failed to upload avatar", 0, err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
	return s.userService.UpdateUser(userID, models.UserUpdate{AvatarURL: &publicURL})
}

func (s *AvatarService) avatarKey(userID, ext string) string {
	return fmt.Sprintf("avatars/%s/avatar.%s", userID, ext)
}
