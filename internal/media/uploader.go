package media

import (
	"context"

	"expo_leads/internal/common"
)

// Uploader validates, optionally normalizes and uploads card images
type Uploader struct {
	Store      Store
	Folder     string
	Rules      Rules
	Normalizer *Normalizer // nil = upload bytes as received
}

// CardURLs are the URLs of the images that were sent; empty for a missing side
type CardURLs struct {
	Front string
	Back  string
}

// UploadCards uploads the front then the back image.
// Nothing is rolled back remotely when the second upload fails.
func (u *Uploader) UploadCards(ctx context.Context, atts Attachments) (CardURLs, error) {
	var urls CardURLs

	front, err := u.upload(ctx, atts.Front)
	if err != nil {
		return urls, err
	}
	urls.Front = front

	back, err := u.upload(ctx, atts.Back)
	if err != nil {
		return urls, err
	}
	urls.Back = back

	return urls, nil
}

func (u *Uploader) upload(ctx context.Context, a *Attachment) (string, error) {
	if a == nil {
		return "", nil
	}

	if err := u.Rules.CheckFile(a.Field, a.ContentType, a.Size()); err != nil {
		return "", err
	}
	if u.Normalizer != nil {
		if err := u.Normalizer.Normalize(a); err != nil {
			return "", err
		}
	}

	url, err := u.Store.Upload(ctx, Object{
		Key:         ObjectKey(u.Folder, a.Filename, a.ContentType),
		ContentType: a.ContentType,
		Data:        a.Data,
	})
	if err != nil {
		return "", common.UpstreamError(err)
	}
	return url, nil
}
