package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const commentID = "5a4b3c2d-1e0f-4a9b-8c7d-200000000001"

func newCommentUsecaseForTest() (*CommentUsecase, *CommentRepoMock, *ProductRepoMock, *AuditRepoMock) {
	comments := new(CommentRepoMock)
	products := new(ProductRepoMock)
	audit := new(AuditRepoMock)
	return NewCommentUsecase(comments, products, audit), comments, products, audit
}

func validCommentInput() CreateCommentInput {
	return CreateCommentInput{
		ProduitID:   productID,
		Nom:         "Salma",
		Rating:      5,
		Commentaire: "Très confortables, je recommande.",
		Images:      []string{"https://cdn.example.com/a.jpg"},
	}
}

func TestCommentUsecase_Create_Success(t *testing.T) {
	uc, comments, products, _ := newCommentUsecaseForTest()
	ctx := context.Background()

	var stored model.Comment
	products.On("FindByID", ctx, productID).Return(model.Product{ID: productID}, nil).Once()
	comments.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(model.Comment)
	}).Return(nil).Once()

	out, err := uc.Create(ctx, validCommentInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.Token)
	assert.True(t, out.Comment.Approved)
	assert.False(t, out.Comment.Flagged)
	//平文のトークンは保存しない
	assert.NotEqual(t, out.Token, stored.TokenHash)
	assert.Equal(t, hashOwnerToken(out.Token), stored.TokenHash)
	assert.Len(t, stored.Images, 1)
}

// スパム疑いでも公開される
func TestCommentUsecase_Create_SpamIsFlaggedButApproved(t *testing.T) {
	uc, comments, products, _ := newCommentUsecaseForTest()
	ctx := context.Background()

	products.On("FindByID", ctx, productID).Return(model.Product{ID: productID}, nil).Once()
	comments.On("Create", ctx, mock.MatchedBy(func(c model.Comment) bool {
		return c.Flagged && c.Approved
	})).Return(nil).Once()

	in := validCommentInput()
	in.Commentaire = "Best CASINO bonus here"
	out, err := uc.Create(ctx, in)
	require.NoError(t, err)
	assert.True(t, out.Comment.Flagged)
	comments.AssertExpectations(t)
}

func TestCommentUsecase_Create_Validation(t *testing.T) {
	uc, _, _, _ := newCommentUsecaseForTest()

	in := validCommentInput()
	in.Rating = 6
	in.Images = []string{"a", "b", "c", "d", "e", "f", "g"}
	in.ProduitID = "nope"

	_, err := uc.Create(context.Background(), in)
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "max", he.Fields["rating"])
	assert.Equal(t, "max", he.Fields["images"])
	assert.Equal(t, "uuid", he.Fields["produit_id"])
}

func TestCommentUsecase_Create_ProductNotFound(t *testing.T) {
	uc, comments, products, _ := newCommentUsecaseForTest()
	products.On("FindByID", mock.Anything, productID).Return(model.Product{}, repo.ErrNotFound).Once()

	_, err := uc.Create(context.Background(), validCommentInput())
	requireStatus(t, err, http.StatusNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentUsecase_ListForProduct_Average(t *testing.T) {
	uc, comments, _, _ := newCommentUsecaseForTest()
	comments.On("ListApprovedByProduct", mock.Anything, productID).
		Return([]model.Comment{{Rating: 5}, {Rating: 4}, {Rating: 4}}, nil).Once()

	out, err := uc.ListForProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, 4.3, out.AverageRating)
}

func TestCommentUsecase_Owner(t *testing.T) {
	token := "owner-token"
	existing := model.Comment{ID: commentID, Nom: "Salma", Rating: 4, Commentaire: "ok", TokenHash: hashOwnerToken(token), Approved: true}

	t.Run("missing token is 401", func(t *testing.T) {
		uc, _, _, _ := newCommentUsecaseForTest()
		err := uc.DeleteByOwner(context.Background(), commentID, "")
		requireStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("wrong token is 403", func(t *testing.T) {
		uc, comments, _, _ := newCommentUsecaseForTest()
		comments.On("FindByID", mock.Anything, commentID).Return(existing, nil).Once()

		err := uc.DeleteByOwner(context.Background(), commentID, "someone-else")
		requireStatus(t, err, http.StatusForbidden)
		comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("edit with token", func(t *testing.T) {
		uc, comments, _, _ := newCommentUsecaseForTest()
		comments.On("FindByID", mock.Anything, commentID).Return(existing, nil).Once()
		comments.On("Update", mock.Anything, mock.MatchedBy(func(c model.Comment) bool {
			return c.Rating == 2 && c.Commentaire == "finalement bof" && !c.Flagged
		})).Return(nil).Once()

		rating := 2
		body := " finalement bof "
		c, err := uc.UpdateByOwner(context.Background(), commentID, token, OwnerUpdateCommentInput{Rating: &rating, Commentaire: &body})
		require.NoError(t, err)
		assert.Equal(t, "Salma", c.Nom)
		comments.AssertExpectations(t)
	})

	t.Run("delete with token", func(t *testing.T) {
		uc, comments, _, _ := newCommentUsecaseForTest()
		comments.On("FindByID", mock.Anything, commentID).Return(existing, nil).Once()
		comments.On("Delete", mock.Anything, commentID).Return(nil).Once()

		require.NoError(t, uc.DeleteByOwner(context.Background(), commentID, token))
		comments.AssertExpectations(t)
	})
}

func TestCommentUsecase_AdminUpdate_Audits(t *testing.T) {
	uc, comments, _, audit := newCommentUsecaseForTest()
	ctx := context.Background()

	comments.On("FindByID", ctx, commentID).Return(model.Comment{ID: commentID, Approved: true, Flagged: true}, nil).Once()
	comments.On("Update", ctx, mock.MatchedBy(func(c model.Comment) bool {
		return !c.Approved && !c.Flagged
	})).Return(nil).Once()
	audit.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionModerateComment && l.ActorEmail == actor && l.ResourceID == commentID
	})).Return(nil).Once()

	no := false
	_, err := uc.AdminUpdate(ctx, actor, commentID, AdminUpdateCommentInput{Approved: &no, Flagged: &no})
	require.NoError(t, err)
	comments.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestCommentUsecase_AdminList(t *testing.T) {
	uc, comments, _, _ := newCommentUsecaseForTest()
	flagged := true
	f := repo.CommentListFilter{Flagged: &flagged, Limit: 20}
	comments.On("List", mock.Anything, f).Return([]model.Comment{{ID: commentID}}, int64(1), nil).Once()

	out, err := uc.AdminList(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)

	_, err = uc.AdminList(context.Background(), repo.CommentListFilter{Limit: 500})
	requireStatus(t, err, http.StatusBadRequest)
}
