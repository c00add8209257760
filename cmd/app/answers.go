// File: cmd/app/answers.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"minerva-beacon/internal/usecase"
)

// answerBatchFile is the on-disk shape of a founder's answer batch.
type answerBatchFile struct {
	Answers []struct {
		QuestionID string   `yaml:"question_id"`
		AnswerText string   `yaml:"answer_text"`
		Files      []string `yaml:"files"`
	} `yaml:"answers"`
}

// runAnswerBatch reads the batch file, uploads every referenced attachment
// and submits the lot in one bulk call. Partial failure is printed, not
// fatal.
func runAnswerBatch(ctx context.Context, uc usecase.AnswersUseCase, startupID, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}
	var batch answerBatchFile
	if err := yaml.Unmarshal(b, &batch); err != nil {
		return fmt.Errorf("parse batch: %w", err)
	}
	if len(batch.Answers) == 0 {
		return fmt.Errorf("batch holds no answers")
	}

	drafts := make([]usecase.AnswerDraft, 0, len(batch.Answers))
	var open []*os.File
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()
	for _, a := range batch.Answers {
		d := usecase.AnswerDraft{QuestionID: a.QuestionID, AnswerText: a.AnswerText}
		for _, p := range a.Files {
			f, err := os.Open(p)
			if err != nil {
				return fmt.Errorf("open attachment %s: %w", p, err)
			}
			open = append(open, f)
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat attachment %s: %w", p, err)
			}
			d.Files = append(d.Files, usecase.AttachmentFile{
				Filename: filepath.Base(p),
				Size:     info.Size(),
				Body:     f,
			})
		}
		drafts = append(drafts, d)
	}

	out, err := uc.SubmitAnswers(ctx, startupID, drafts)
	if err != nil {
		return err
	}
	for _, uf := range out.UploadFailures {
		fmt.Fprintf(os.Stderr, "upload failed: %s/%s: %v\n", uf.QuestionID, uf.Filename, uf.Err)
	}
	fmt.Printf("%s (%d failed of %d)\n", out.Receipt.Message, out.Receipt.Failed, len(drafts))
	if out.Receipt.ReanalysisTriggered {
		fmt.Println("reanalysis triggered")
	}
	return nil
}
