package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/mapper"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/mocks"
	"github.com/stretchr/testify/require"
)

// Unit-тесты однократного поиска (search.go):
//  - пустой/пробельный запрос -> пустой успех без сети;
//  - TrimSpace перед запросом, null-секции и битые секции отбрасываются;
//  - ошибки API классифицируются.

func TestSearch_EmptyQuery_NoNetwork(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockSearchAPI(ctrl)
	s := NewSearch(api, mapper.New(), nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		secs, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		require.NotNil(t, secs)
		require.Empty(t, secs)
	}
}

func TestSearch_MapsAndDropsNulls(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockSearchAPI(ctrl)
	s := NewSearch(api, mapper.New(), nil)

	api.EXPECT().Search(gomock.Any(), "tech news").Return(&remote.HomeResponse{
		Sections: []*remote.SectionDTO{
			nil,
			{Name: "Found", Type: "square", ContentType: "audio_article", Order: json.RawMessage(`1`),
				Content: []map[string]json.RawMessage{{"article_id": json.RawMessage(`"a1"`)}}},
			{Name: ""},
		},
	}, nil)

	secs, err := s.Search(context.Background(), "  tech news ")
	require.NoError(t, err)
	require.Len(t, secs, 1)
	require.Equal(t, "Found", secs[0].Name)
	require.Len(t, secs[0].Items, 1)
}

func TestSearch_ErrorsClassified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want dataerr.Kind
	}{
		{"no host", &net.DNSError{Err: "no such host", Name: "api", IsNotFound: true}, dataerr.NetworkUnavailable},
		{"http", &remote.HTTPError{StatusCode: 500, URL: "u"}, dataerr.HTTPError},
		{"decode", &remote.DecodeError{URL: "u", Err: errors.New("bad")}, dataerr.ParsingError},
		{"other", errors.New("boom"), dataerr.UnexpectedError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			api := mocks.NewMockSearchAPI(ctrl)
			api.EXPECT().Search(gomock.Any(), "q").Return(nil, tt.err)

			_, err := NewSearch(api, mapper.New(), nil).Search(context.Background(), "q")
			var derr *dataerr.Error
			require.True(t, errors.As(err, &derr))
			require.Equal(t, tt.want, derr.Kind)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
