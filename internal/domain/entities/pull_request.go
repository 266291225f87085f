package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// PullRequestInput is re-exported from gitforge.
type PullRequestInput = gitforgeEntities.PullRequestInput

// PullRequest is re-exported from gitforge.
type PullRequest = gitforgeEntities.PullRequest

// RunOutputs summarizes a run across every processed branch.
type RunOutputs struct {
	UpdatesAvailable   bool
	UpdateCount        int
	PullRequestURLs    []string
	PullRequestNumbers []int
}

// Record adds the outcome of one branch.
func (o *RunOutputs) Record(updateCount int, pullRequest *PullRequest) {
	o.UpdateCount += updateCount
	o.UpdatesAvailable = o.UpdateCount > 0
	if pullRequest != nil {
		o.PullRequestURLs = append(o.PullRequestURLs, pullRequest.URL)
		o.PullRequestNumbers = append(o.PullRequestNumbers, pullRequest.ID)
	}
}
