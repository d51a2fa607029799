package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationModel "moments-backend/internal/domains/notification/model"
	"moments-backend/internal/domains/post/model"
	"moments-backend/internal/infrastructure/storage"
	"moments-backend/internal/shared"
)

type fakeRepo struct {
	posts     map[uuid.UUID]*model.Post
	reactions map[[2]uuid.UUID]string
	saved     map[[2]uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:     map[uuid.UUID]*model.Post{},
		reactions: map[[2]uuid.UUID]string{},
		saved:     map[[2]uuid.UUID]bool{},
	}
}

func (r *fakeRepo) Create(_ context.Context, p *model.Post) error {
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	p, ok := r.posts[id]
	if !ok || p.IsDeleted {
		return nil, model.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) FindView(ctx context.Context, id, viewerID uuid.UUID) (*model.PostView, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.view(p, viewerID), nil
}

func (r *fakeRepo) view(p *model.Post, viewerID uuid.UUID) *model.PostView {
	v := &model.PostView{Post: *p, Author: shared.UserSummary{ID: p.AuthorID.String()}}
	for key, t := range r.reactions {
		if key[0] != p.ID {
			continue
		}
		switch t {
		case model.ReactionLike:
			v.Reactions.Like++
		case model.ReactionLove:
			v.Reactions.Love++
		}
		if key[1] == viewerID {
			t := t
			v.UserReaction = &t
		}
	}
	v.TotalReactions = v.Reactions.Total()
	v.IsSaved = r.saved[[2]uuid.UUID{viewerID, p.ID}]
	return v
}

func (r *fakeRepo) Update(_ context.Context, p *model.Post) error {
	if _, ok := r.posts[p.ID]; !ok {
		return model.ErrPostNotFound
	}
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.posts[id]
	if !ok || p.IsDeleted {
		return model.ErrPostNotFound
	}
	p.IsDeleted = true
	return nil
}

func (r *fakeRepo) Feed(_ context.Context, viewerID uuid.UUID, limit, offset int) ([]model.PostView, error) {
	return r.list(viewerID, func(p *model.Post) bool { return p.AuthorID == viewerID }, limit, offset), nil
}

func (r *fakeRepo) ListByAuthor(_ context.Context, authorID, viewerID uuid.UUID, limit, offset int) ([]model.PostView, error) {
	return r.list(viewerID, func(p *model.Post) bool { return p.AuthorID == authorID }, limit, offset), nil
}

func (r *fakeRepo) ListSaved(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.PostView, error) {
	return r.list(userID, func(p *model.Post) bool { return r.saved[[2]uuid.UUID{userID, p.ID}] }, limit, offset), nil
}

func (r *fakeRepo) list(viewerID uuid.UUID, keep func(*model.Post) bool, limit, offset int) []model.PostView {
	out := []model.PostView{}
	for _, p := range r.posts {
		if !p.IsDeleted && keep(p) {
			out = append(out, *r.view(p, viewerID))
		}
	}
	if offset >= len(out) {
		return []model.PostView{}
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeRepo) ToggleReaction(_ context.Context, postID, userID uuid.UUID, reactionType string) (*model.ReactionResult, error) {
	key := [2]uuid.UUID{postID, userID}
	res := &model.ReactionResult{PostID: postID}
	current, ok := r.reactions[key]
	switch {
	case !ok:
		r.reactions[key] = reactionType
		res.Action, res.UserReaction = model.ReactionAdded, &reactionType
	case current == reactionType:
		delete(r.reactions, key)
		res.Action = model.ReactionRemoved
	default:
		r.reactions[key] = reactionType
		res.Action, res.UserReaction = model.ReactionUpdated, &reactionType
	}
	return res, nil
}

func (r *fakeRepo) Save(_ context.Context, userID, postID uuid.UUID) error {
	r.saved[[2]uuid.UUID{userID, postID}] = true
	return nil
}

func (r *fakeRepo) Unsave(_ context.Context, userID, postID uuid.UUID) error {
	delete(r.saved, [2]uuid.UUID{userID, postID})
	return nil
}

func (r *fakeRepo) AuthorName(context.Context, uuid.UUID) (string, error) { return "Sam", nil }

type fakeAttachments struct {
	rows map[uuid.UUID]*model.Attachment
}

func (r *fakeAttachments) Create(_ context.Context, a *model.Attachment) error {
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAttachments) CountByPost(_ context.Context, postID uuid.UUID) (int, error) {
	n := 0
	for _, a := range r.rows {
		if a.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAttachments) ListByPost(_ context.Context, postID uuid.UUID) ([]model.Attachment, error) {
	out := []model.Attachment{}
	for _, a := range r.rows {
		if a.PostID == postID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttachments) FindByID(_ context.Context, id uuid.UUID) (*model.Attachment, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, model.ErrAttachmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAttachments) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return model.ErrAttachmentNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeAttachments) SetThumbnail(_ context.Context, id uuid.UUID, path string) error {
	a, ok := r.rows[id]
	if !ok {
		return model.ErrAttachmentNotFound
	}
	a.ThumbnailPath = &path
	return nil
}

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Upload(_ context.Context, bucket, key string, data []byte, _ string) (string, error) {
	m.objects[bucket+"/"+key] = data
	return m.URL(bucket, key), nil
}

func (m *memStorage) Download(_ context.Context, bucket, key string) ([]byte, error) {
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (m *memStorage) Delete(_ context.Context, bucket, key string) error {
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memStorage) DeleteByPrefix(_ context.Context, bucket, prefix string) error {
	for k := range m.objects {
		if strings.HasPrefix(k, bucket+"/"+prefix) {
			delete(m.objects, k)
		}
	}
	return nil
}

func (m *memStorage) URL(bucket, key string) string {
	return fmt.Sprintf("http://minio.test/%s/%s", bucket, key)
}

type fakeEnqueuer struct {
	payloads []shared.AttachmentThumbnailPayload
}

func (e *fakeEnqueuer) EnqueueAttachmentThumbnail(_ context.Context, p shared.AttachmentThumbnailPayload) error {
	e.payloads = append(e.payloads, p)
	return nil
}

type fakeNotifier struct {
	sent []notificationModel.NotifyInput
}

func (n *fakeNotifier) Notify(_ context.Context, in notificationModel.NotifyInput) (*notificationModel.Notification, error) {
	n.sent = append(n.sent, in)
	return &notificationModel.Notification{}, nil
}

type fixture struct {
	svc         *postService
	repo        *fakeRepo
	attachments *fakeAttachments
	storage     *memStorage
	enqueuer    *fakeEnqueuer
	notifier    *fakeNotifier
}

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:        newFakeRepo(),
		attachments: &fakeAttachments{rows: map[uuid.UUID]*model.Attachment{}},
		storage:     &memStorage{objects: map[string][]byte{}},
		enqueuer:    &fakeEnqueuer{},
		notifier:    &fakeNotifier{},
	}
	f.svc = NewPostService(
		f.repo, f.attachments, f.storage,
		storage.NewImageProcessor(model.MaxAttachmentBytes),
		f.enqueuer, f.notifier, "post-attachments", 20,
	).(*postService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) post(t *testing.T, author uuid.UUID) *model.PostView {
	t.Helper()
	p, err := f.svc.Create(context.Background(), author, model.PostRequest{Content: "  hello there  "})
	require.NoError(t, err)
	return p
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 320))
	for x := 0; x < 640; x++ {
		img.Set(x, x%320, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCreateAndUpdate(t *testing.T) {
	f := newFixture()
	author, other := uuid.New(), uuid.New()

	p := f.post(t, author)
	assert.Equal(t, "hello there", p.Content)

	_, err := f.svc.Create(context.Background(), author, model.PostRequest{Content: strings.Repeat("x", model.MaxContentLength+1)})
	require.Error(t, err)

	_, err = f.svc.Update(context.Background(), other, p.ID, model.PostRequest{Content: "hijack"})
	var pErr *model.PostError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodeNotAuthor, pErr.Code)

	link := "https://example.com/a"
	updated, err := f.svc.Update(context.Background(), author, p.ID, model.PostRequest{Content: "edited", LinkURL: &link})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, &link, updated.LinkURL)
}

func TestDeleteIsSoftAndAuthorOnly(t *testing.T) {
	f := newFixture()
	author := uuid.New()
	p := f.post(t, author)

	err := f.svc.Delete(context.Background(), uuid.New(), p.ID)
	var pErr *model.PostError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodeNotAuthor, pErr.Code)

	a, err := f.svc.UploadAttachment(context.Background(), author, p.ID, model.UploadInput{
		FileName: "notes.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	f.storage.objects["post-attachments/other/"+a.ObjectPath] = []byte("kept")

	require.NoError(t, f.svc.Delete(context.Background(), author, p.ID))
	assert.True(t, f.repo.posts[p.ID].IsDeleted)
	assert.NotContains(t, f.storage.objects, "post-attachments/"+a.ObjectPath)
	assert.Contains(t, f.storage.objects, "post-attachments/other/"+a.ObjectPath)

	_, err = f.svc.Get(context.Background(), author, p.ID)
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodePostNotFound, pErr.Code)
}

func TestReactToggles(t *testing.T) {
	f := newFixture()
	author, fan := uuid.New(), uuid.New()
	p := f.post(t, author)
	ctx := context.Background()

	res, err := f.svc.React(ctx, fan, p.ID, model.ReactRequest{ReactionType: model.ReactionLike})
	require.NoError(t, err)
	assert.Equal(t, model.ReactionAdded, res.Action)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notificationModel.TypeReaction, f.notifier.sent[0].Type)
	assert.Equal(t, author, f.notifier.sent[0].UserID)

	res, err = f.svc.React(ctx, fan, p.ID, model.ReactRequest{ReactionType: model.ReactionLove})
	require.NoError(t, err)
	assert.Equal(t, model.ReactionUpdated, res.Action)
	assert.Equal(t, model.ReactionLove, *res.UserReaction)

	view, err := f.svc.Get(ctx, fan, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Reactions.Love)
	assert.Equal(t, 1, view.TotalReactions)

	res, err = f.svc.React(ctx, fan, p.ID, model.ReactRequest{ReactionType: model.ReactionLove})
	require.NoError(t, err)
	assert.Equal(t, model.ReactionRemoved, res.Action)
	assert.Nil(t, res.UserReaction)

	// self reactions and updates never notify
	_, err = f.svc.React(ctx, author, p.ID, model.ReactRequest{ReactionType: model.ReactionLike})
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 1)

	_, err = f.svc.React(ctx, fan, p.ID, model.ReactRequest{ReactionType: "meh"})
	require.Error(t, err)
}

func TestSaves(t *testing.T) {
	f := newFixture()
	author, reader := uuid.New(), uuid.New()
	p := f.post(t, author)
	ctx := context.Background()

	require.NoError(t, f.svc.Save(ctx, reader, p.ID))
	require.NoError(t, f.svc.Save(ctx, reader, p.ID))

	saved, err := f.svc.ListSaved(ctx, reader, 1)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].IsSaved)

	require.NoError(t, f.svc.Unsave(ctx, reader, p.ID))
	saved, err = f.svc.ListSaved(ctx, reader, 1)
	require.NoError(t, err)
	assert.Empty(t, saved)

	err = f.svc.Save(ctx, reader, uuid.New())
	var pErr *model.PostError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodePostNotFound, pErr.Code)
}

func TestUploadAttachment(t *testing.T) {
	f := newFixture()
	author := uuid.New()
	p := f.post(t, author)
	ctx := context.Background()

	a, err := f.svc.UploadAttachment(ctx, author, p.ID, model.UploadInput{
		FileName: "photo.png", ContentType: "image/png", Data: samplePNG(t),
	})
	require.NoError(t, err)

	pattern := fmt.Sprintf(`^%s/%s/%d-[0-9a-f]{6}\.png$`, author, p.ID, fixedNow.UnixMilli())
	assert.Regexp(t, regexp.MustCompile(pattern), a.ObjectPath)
	assert.Contains(t, f.storage.objects, "post-attachments/"+a.ObjectPath)
	require.Len(t, f.enqueuer.payloads, 1)
	assert.Equal(t, a.ID.String(), f.enqueuer.payloads[0].AttachmentID)

	_, err = f.svc.UploadAttachment(ctx, author, p.ID, model.UploadInput{
		FileName: "notes.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Len(t, f.enqueuer.payloads, 1, "documents get no thumbnail")

	tests := []struct {
		name string
		user uuid.UUID
		in   model.UploadInput
		code string
	}{
		{"not author", uuid.New(), model.UploadInput{ContentType: "application/pdf", Data: []byte("x")}, model.ErrCodeNotAuthor},
		{"too large", author, model.UploadInput{ContentType: "application/pdf", Data: make([]byte, model.MaxAttachmentBytes+1)}, model.ErrCodeAttachmentTooLarge},
		{"unsupported", author, model.UploadInput{ContentType: "application/x-sh", Data: []byte("x")}, model.ErrCodeUnsupportedAttachment},
		{"broken image", author, model.UploadInput{ContentType: "image/png", Data: []byte("x")}, model.ErrCodeInvalidImageAttachment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UploadAttachment(ctx, tt.user, p.ID, tt.in)
			var pErr *model.PostError
			require.ErrorAs(t, err, &pErr)
			assert.Equal(t, tt.code, pErr.Code)
		})
	}
}

func TestUploadAttachment_Limit(t *testing.T) {
	f := newFixture()
	author := uuid.New()
	p := f.post(t, author)
	ctx := context.Background()

	doc := model.UploadInput{FileName: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	for i := 0; i < model.MaxAttachmentsPerPost; i++ {
		_, err := f.svc.UploadAttachment(ctx, author, p.ID, doc)
		require.NoError(t, err)
	}

	_, err := f.svc.UploadAttachment(ctx, author, p.ID, doc)
	var pErr *model.PostError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodeTooManyAttachments, pErr.Code)
}

func TestThumbnailAndDelete(t *testing.T) {
	f := newFixture()
	author := uuid.New()
	p := f.post(t, author)
	ctx := context.Background()

	a, err := f.svc.UploadAttachment(ctx, author, p.ID, model.UploadInput{
		FileName: "photo.png", ContentType: "image/png", Data: samplePNG(t),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.GenerateThumbnail(ctx, f.enqueuer.payloads[0]))
	thumbKey := storage.ThumbnailKey(a.ObjectPath)
	assert.Contains(t, f.storage.objects, "post-attachments/"+thumbKey)

	list, err := f.svc.ListAttachments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ThumbnailURL)
	assert.Equal(t, "http://minio.test/post-attachments/"+thumbKey, *list[0].ThumbnailURL)

	err = f.svc.DeleteAttachment(ctx, author, uuid.New(), a.ID)
	var pErr *model.PostError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodeAttachmentNotFound, pErr.Code)

	require.NoError(t, f.svc.DeleteAttachment(ctx, author, p.ID, a.ID))
	assert.Empty(t, f.storage.objects)
	assert.Empty(t, f.attachments.rows)
}
