package web

import (
	"fmt"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/portfolio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/domain/model"
)

const (
	repoListPath    = "/app/repos"
	refreshPath     = "/app/repos/refresh"
	revealStepTenth = 1 // tenths of a second between card reveals
)

// toRepoListViewModel converts the surface snapshot into the repo list fragment
// view model. loading reports whether a load is currently in flight; ages are
// relative to now.
func toRepoListViewModel(snap model.FeedSnapshot, loading bool, now time.Time) vm.RepoListViewModel {
	list := vm.RepoListViewModel{
		Status:      string(snap.Status),
		Version:     snap.Version,
		Cards:       []vm.RepoCardViewModel{},
		Refreshing:  loading,
		RefreshPath: refreshPath,
		PollPath:    repoListPath,
	}

	switch snap.Status {
	case model.FeedStatusLoaded:
		for _, e := range snap.Entries {
			list.Cards = append(list.Cards, toRepoCardViewModel(e, now))
		}
		list.Toast = model.LoadedMessage
	case model.FeedStatusEmpty:
		list.Placeholder = vm.PlaceholderViewModel{
			Kind:    "empty",
			Icon:    "folder-open",
			Message: model.EmptyFeedMessage,
		}
	case model.FeedStatusFailed:
		list.Placeholder = vm.PlaceholderViewModel{
			Kind:    "failed",
			Icon:    "exclamation-triangle",
			Message: snap.Failure.Message(),
			Hint:    model.FailureHint,
		}
	default:
		// idle renders the same placeholder as loading: the autoload is
		// about to start.
		list.Placeholder = vm.PlaceholderViewModel{
			Kind:    "loading",
			Message: model.LoadingMessage,
		}
	}

	return list
}

func toRepoCardViewModel(e model.FeedEntry, now time.Time) vm.RepoCardViewModel {
	return vm.RepoCardViewModel{
		Name:            e.Name,
		URL:             e.URL,
		DescriptionHTML: RenderInlineMarkdown(e.Description),
		Language:        e.Language,
		LanguageColor:   e.LanguageColor,
		StarsLabel:      strconv.Itoa(e.Stars),
		ForksLabel:      strconv.Itoa(e.Forks),
		UpdatedLabel:    application.FormatAge(e.UpdatedAt, now),
		UpdatedISO:      e.UpdatedAt.UTC().Format(time.RFC3339),
		IsPrivate:       e.IsPrivate,
		RevealDelay:     revealDelay(e.Position),
	}
}

// revealDelay formats position*0.1s without float rounding noise.
func revealDelay(position int) string {
	tenths := position * revealStepTenth
	return fmt.Sprintf("%d.%ds", tenths/10, tenths%10)
}
