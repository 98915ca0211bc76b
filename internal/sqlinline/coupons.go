package sqlinline

const QGetCouponByCode = `--sql 975bfbc9-b8ef-435b-9c6b-186db503ed6a
select code, status, generated_on, redeemed_on, coalesce(redeemed_by, '')
from coupons
where upper(code) = upper($1);
`

// QRedeemCoupon flips the coupon atomically; zero rows affected means the
// coupon was missing or already spent.
const QRedeemCoupon = `--sql 564927e6-a4e2-4415-84b1-c2818129c148
update coupons
set status = 'Redeemed',
    redeemed_on = $3,
    redeemed_by = $2
where upper(code) = upper($1)
  and status = 'Available';
`

const QCreateCoupon = `--sql cc4749ea-e5eb-4c7b-b5a6-cef41aea6fd4
insert into coupons (code, status, generated_on)
values ($1, 'Available', $2);
`

const QListCoupons = `--sql f5fea156-f877-4c5d-a885-f5a85c32769d
select code, status, generated_on, redeemed_on, coalesce(redeemed_by, '')
from coupons
order by generated_on desc, code;
`
