package consts

// UserTokenKey is the redis key prefix for login sessions. Keys are
// prefix + userId.
const UserTokenKey = "taskhub:user:token:"
