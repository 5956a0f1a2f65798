package event

// expose the real persistence function to external tests, independent of
// the mockable EventPersistCreateFunc variable
var EventPersistCreate = eventPersistCreate
