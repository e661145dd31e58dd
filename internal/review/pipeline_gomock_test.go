package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/githubapi"
	"github.com/sevigo/codewarden-kit/mocks"
)

func TestPipelineRunUsesMockGitHubClientAndStore(t *testing.T) {
	ctrl := gomock.NewController(t)

	gh := mocks.NewMockClient(ctrl)
	store := mocks.NewMockStore(ctrl)

	pr := &core.PRContext{Owner: "o", Repo: "r", PRNumber: 7, Title: "t"}
	files := []core.PRFile{{Filename: "main.go", Additions: 5, Deletions: 1, Patch: "+foo"}}

	gh.EXPECT().GetPullRequest(gomock.Any(), "o", "r", 7).Return(pr, nil)
	gh.EXPECT().GetChangedFiles(gomock.Any(), "o", "r", 7).Return(files, nil)
	gh.EXPECT().GetPullRequestDiff(gomock.Any(), "o", "r", 7).Return("diff", nil)
	gh.EXPECT().CreateComment(gomock.Any(), "o", "r", 7, gomock.Any()).Return(nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec HistoryRecord) error {
			assert.Equal(t, "o", rec.Owner)
			assert.Equal(t, 7, rec.PRNumber)
			return nil
		})

	llm := &fakeLLM{texts: []string{sampleReview}}
	p := New(gh, llm, noopCosts{}, nil, noopLogger{}).WithHistory(store)

	out, err := p.Run(context.Background(), Request{Owner: "o", Repo: "r", PRNumber: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Issues)
}

func TestPipelineRunSurfacesGitHubClientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gh := mocks.NewMockClient(ctrl)

	wantErr := core.NewError(core.KindProviderUnavailable, "fetch pull request")
	gh.EXPECT().GetPullRequest(gomock.Any(), "o", "r", 9).Return(nil, wantErr)

	llm := &fakeLLM{texts: []string{sampleReview}}
	p := New(gh, llm, noopCosts{}, nil, noopLogger{})

	_, err := p.Run(context.Background(), Request{Owner: "o", Repo: "r", PRNumber: 9})
	require.Error(t, err)
	assert.Equal(t, core.KindProviderUnavailable, core.KindOf(err))
}

func TestMockStoreLatestRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	want := &HistoryRecord{Owner: "o", Repo: "r", PRNumber: 1, CreatedAt: time.Now()}
	store.EXPECT().Latest(gomock.Any(), "o", "r", 1).Return(want, nil)

	got, err := store.Latest(context.Background(), "o", "r", 1)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

var _ githubapi.Client = (*mocks.MockClient)(nil)
var _ Store = (*mocks.MockStore)(nil)
