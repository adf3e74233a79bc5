package app

import "fmt"

var ErrIncompleteCascade = fmt.Errorf("review deletion did not append a deleted status for every feedback assignment")
var ErrUnknownRetractionReason = fmt.Errorf("unknown retraction reason")
var ErrAssignmentDeleted = fmt.Errorf("feedback assignment is deleted")
