package models

type Parameter string

const (
	ParameterPM10 Parameter = "PM10"
	ParameterPM25 Parameter = "PM2.5"
	ParameterSO2  Parameter = "SO2"
	ParameterNO2  Parameter = "NO2"
	ParameterO3   Parameter = "O3"
	ParameterCO   Parameter = "CO"
)

type DecisionRule string

const (
	DecisionConforming    DecisionRule = "Conforming"
	DecisionNonConforming DecisionRule = "NonConforming"
)
