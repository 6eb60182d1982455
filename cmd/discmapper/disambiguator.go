package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"discmapper/internal/classify"
	"discmapper/internal/pipeline"
)

// promptDisambiguator asks the operator to resolve a multi-cut movie disc.
// Only wired when stdin is a terminal; unattended runs route ambiguous
// discs to review instead.
type promptDisambiguator struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptDisambiguator(in io.Reader, out io.Writer) *promptDisambiguator {
	return &promptDisambiguator{in: bufio.NewReader(in), out: out}
}

func (p *promptDisambiguator) ChooseCut(candidates []classify.Candidate) (pipeline.Resolution, error) {
	fmt.Fprintln(p.out, "\nMultiple cuts detected:")
	for i, candidate := range candidates {
		fmt.Fprintf(p.out, "  [%d] %s  %dm  %.2f GB  %d audio / %d subs\n",
			i+1, candidate.Name, candidate.DurationSeconds/60,
			float64(candidate.SizeBytes)/(1024*1024*1024),
			candidate.AudioStreams, candidate.SubtitleStreams)
	}
	fmt.Fprint(p.out, "Keep which cut? (number, a=keep all for review, r=send to review): ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		return pipeline.Resolution{Action: pipeline.CutReviewSingle}, nil
	}
	return parseCutChoice(strings.TrimSpace(line), candidates), nil
}

func parseCutChoice(input string, candidates []classify.Candidate) pipeline.Resolution {
	switch strings.ToLower(input) {
	case "a", "all":
		return pipeline.Resolution{Action: pipeline.CutReviewAll}
	case "r", "review", "":
		return pipeline.Resolution{Action: pipeline.CutReviewSingle}
	}
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(candidates) {
		return pipeline.Resolution{Action: pipeline.CutReviewSingle}
	}
	return pipeline.Resolution{Action: pipeline.CutKeepOne, Keep: candidates[choice-1]}
}
