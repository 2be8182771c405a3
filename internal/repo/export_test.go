package repo

// MapWriteErr exposes mapWriteErr to the external test package.
var MapWriteErr = mapWriteErr
