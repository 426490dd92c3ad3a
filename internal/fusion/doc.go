// Package fusion implements the multimodal emotion fusion pipeline:
// aggregation of raw observations into per-modality summaries, confidence
// weighting, fusion into a unified emotion, temporal trend analysis, risk
// assessment and recommendation generation. Every stage is a pure function of
// its inputs; Service wires them together for one run.
package fusion
