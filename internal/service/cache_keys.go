package service

// PrefixDetails is the prefix for cached title records (details:{imdbID})
const PrefixDetails = "details:"
