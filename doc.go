// Package saber evaluates sequence-labeling (NER) models during training by
// scoring predicted entity chunks against gold chunks.
//
// # Quick Start
//
//	labels, err := saber.LoadLabelMap("labels.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ev, err := saber.New(model, labels, "out")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    train(model)
//	    if err := ev.OnEpochEnd(ctx, epoch, trainSubset, validSubset); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Scoring
//
// Tags use the begin/inside/outside scheme (B-DISO, I-DISO, O). Tag
// sequences are grouped into chunks by package chunk and scored per entity
// type by package metrics, with macro and micro averages.
//
// # Reports
//
// After every epoch the Evaluator prints a table per partition and writes
// epoch_NNN.txt into the output directory with the validation scores and the
// best epochs so far by macro and micro F1. By default the file is opened in
// append mode; use WithReportMode(ReportTruncate) to replace it instead.
package saber
